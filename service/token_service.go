// file: service/token_service.go

package service

import (
	"go-user-api/config"
	"go-user-api/logger"
	"go-user-api/model"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and parses the purpose-tagged JWTs used for sessions.
// Its configuration is fixed at construction time and never mutated.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService from the loaded JWT configuration.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshTokenTTLDays) * 24 * time.Hour,
	}
}

// Issue signs a token for the given user with the given purpose and ttl.
func (s *TokenService) Issue(userID int, purpose string, ttl time.Duration) (string, error) {
	claims := &model.AppClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			// The unique id makes every issued token distinct, so rotating
			// a refresh token always produces a new value.
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", err
	}

	return tokenString, nil
}

// GeneratePair issues a fresh access/refresh token pair for a user, using
// the configured lifetimes for each purpose.
func (s *TokenService) GeneratePair(userID int) (model.TokenPair, error) {
	access, err := s.Issue(userID, model.PurposeAccess, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := s.Issue(userID, model.PurposeRefresh, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Parse verifies a token's signature and expiry and returns its claims.
// Every failure mode collapses to ErrInvalidToken: a tampered token, an
// expired token and a structurally broken token are indistinguishable to
// the caller. The distinction is only logged.
func (s *TokenService) Parse(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		logger.Log.WithError(err).Info("Token rejected")
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Purpose == "" || claims.ExpiresAt == nil {
		logger.Log.Info("Token rejected: incomplete claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SubjectID extracts the numeric user id from parsed claims.
func SubjectID(claims *model.AppClaims) (int, error) {
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
