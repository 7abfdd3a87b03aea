// file: service/auth_service.go

package service

import (
	"database/sql"
	"errors"
	"fmt"
	"go-user-api/logger"
	"go-user-api/model"
	"go-user-api/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and the session lifecycle: password
// verification, token issuance and refresh-token rotation.
type AuthService struct {
	userRepo repository.IUserRepository
	tokens   *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.IUserRepository, tokens *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// HashPassword hashes a plaintext password with bcrypt. The salt is
// embedded in the output, so hashing the same password twice yields
// different values.
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a plaintext password against a stored hash.
// A malformed hash verifies as false rather than erroring out.
func (s *AuthService) CheckPasswordHash(password string, hash []byte) bool {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	return err == nil
}

// Register creates a new user with a hashed password and no active session.
func (s *AuthService) Register(req model.RegisterRequest) (*model.UserProfile, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: []byte(hash),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return user.Profile(), nil
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token is persisted only when the user has no active session yet: the
// first login seeds the session, later logins do not rebind it. Only
// Refresh rotates the stored value.
func (s *AuthService) Login(req model.LoginRequest) (model.TokenPair, error) {
	user, err := s.userRepo.GetByPhone(req.Login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TokenPair{}, ErrInvalidCredentials
		}
		return model.TokenPair{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Log.WithField("user_id", user.ID).Info("Login rejected: password mismatch")
		return model.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if !user.RefreshToken.Valid {
		if err := s.userRepo.UpdateRefreshToken(user.ID, pair.RefreshToken); err != nil {
			return model.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair and rotates the
// stored refresh token. The presented token must match the stored value
// exactly; a superseded token is rejected even if its signature and expiry
// are still good.
func (s *AuthService) Refresh(refreshToken string) (model.TokenPair, error) {
	user, err := s.userForToken(refreshToken, model.PurposeRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}

	if !user.RefreshToken.Valid || user.RefreshToken.String != refreshToken {
		logger.Log.WithField("user_id", user.ID).Info("Refresh rejected: token superseded")
		return model.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if err := s.userRepo.UpdateRefreshToken(user.ID, pair.RefreshToken); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("Session refreshed")
	return pair, nil
}

// AuthenticateAccess resolves an access token to its user.
func (s *AuthService) AuthenticateAccess(accessToken string) (*model.User, error) {
	return s.userForToken(accessToken, model.PurposeAccess)
}

// userForToken parses a token, checks its purpose and loads its subject.
// Token-level failures never leak out as ErrInvalidToken; they all become
// ErrInvalidCredentials. Store connectivity failures pass through distinct.
func (s *AuthService) userForToken(tokenString, purpose string) (*model.User, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidCredentials
	}

	userID, err := SubjectID(claims)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load token subject: %w", err)
	}
	return user, nil
}
