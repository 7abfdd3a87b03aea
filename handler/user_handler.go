package handler

import (
	"context"
	"encoding/json"
	"go-user-api/common"
	"go-user-api/logger"
	"go-user-api/model"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// IUserService defines the profile operations the HTTP layer consumes.
type IUserService interface {
	GetProfile(ctx context.Context, userID int) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int, patch model.UpdateUserRequest) (*model.UserProfile, error)
	ListUsers(offset int) ([]*model.UserProfile, error)
}

type UserHandler struct {
	service IUserService
}

func NewUserHandler(service IUserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetUser godoc
// @Summary      Get a user's profile
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} model.UserProfile
// @Failure      404 {object} common.AppError
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
	return nil
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        offset query int false "Number of users to skip"
// @Success      200 {array} model.UserProfile
// @Router       /api/v1/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return common.NewAppError(http.StatusBadRequest, "Invalid offset parameter", nil)
		}
		offset = parsed
	}

	profiles, err := h.service.ListUsers(offset)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profiles)
	return nil
}

// UpdateUser godoc
// @Summary      Update the authenticated user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body model.UpdateUserRequest true "Fields to update"
// @Success      200 {object} model.UserProfile
// @Failure      403 {object} common.AppError
// @Failure      404 {object} common.AppError
// @Router       /api/v1/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}

	authUserID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	// Users may only update their own profile. The denial does not reveal
	// whether the target user exists.
	if authUserID != userID {
		return common.NewAppError(http.StatusForbidden, "Access denied", nil)
	}

	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
	})
	log.Info("Update profile request received")

	profile, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(profile)
	return nil
}

func pathUserID(r *http.Request) (int, *common.AppError) {
	userID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid user ID", nil)
	}
	return userID, nil
}
