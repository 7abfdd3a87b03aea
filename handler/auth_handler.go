package handler

import (
	"encoding/json"
	"errors"
	"go-user-api/common"
	"go-user-api/logger"
	"go-user-api/model"
	"go-user-api/service"
	"net/http"
	"strings"
)

// IAuthService defines the session operations the HTTP layer consumes.
type IAuthService interface {
	Register(req model.RegisterRequest) (*model.UserProfile, error)
	Login(req model.LoginRequest) (model.TokenPair, error)
	Refresh(refreshToken string) (model.TokenPair, error)
	AuthenticateAccess(accessToken string) (*model.User, error)
}

type AuthHandler struct {
	service IAuthService
}

func NewAuthHandler(service IAuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration payload"
// @Success      201 {object} model.UserProfile
// @Failure      409 {object} common.AppError
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	logger.Log.WithField("phone", req.Phone).Info("Register request received")

	profile, err := h.service.Register(req)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(profile)
	return nil
}

// Login godoc
// @Summary      Authenticate with phone and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login payload"
// @Success      200 {object} model.TokenPair
// @Failure      403 {object} common.AppError
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.service.Login(req)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Description  Takes the refresh token as the Authorization bearer credential
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.TokenPair
// @Failure      403 {object} common.AppError
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	token, appErr := bearerToken(r)
	if appErr != nil {
		return appErr
	}

	pair, err := h.service.Refresh(token)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) (string, *common.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
	}

	return headerParts[1], nil
}

// mapServiceError translates service error kinds to HTTP responses. The
// outward message carries only the kind; internal details stay in the logs.
func mapServiceError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return common.NewAppError(http.StatusForbidden, "Could not validate credentials", nil)
	case errors.Is(err, service.ErrDuplicatePhone):
		return common.NewAppError(http.StatusConflict, "Phone number already registered", nil)
	case errors.Is(err, service.ErrNotFound):
		return common.NewAppError(http.StatusNotFound, "User not found", nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}
