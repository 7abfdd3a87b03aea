// file: handler/auth_handler_test.go

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"go-user-api/model"
	"go-user-api/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockAuthService is a mock implementation of IAuthService.
type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(req model.RegisterRequest) (*model.UserProfile, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}
func (m *mockAuthService) Login(req model.LoginRequest) (model.TokenPair, error) {
	args := m.Called(req)
	return args.Get(0).(model.TokenPair), args.Error(1)
}
func (m *mockAuthService) Refresh(refreshToken string) (model.TokenPair, error) {
	args := m.Called(refreshToken)
	return args.Get(0).(model.TokenPair), args.Error(1)
}
func (m *mockAuthService) AuthenticateAccess(accessToken string) (*model.User, error) {
	args := m.Called(accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		mockSvc.On("Register", model.RegisterRequest{
			Name: "Alice", Phone: "+1000", Password: "password1",
		}).Return(&model.UserProfile{ID: 1, Name: "Alice", Phone: "+1000"}, nil).Once()

		h := NewAuthHandler(mockSvc)
		body, _ := json.Marshal(map[string]string{
			"name": "Alice", "phone": "+1000", "password": "password1",
		})
		req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Register).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":1,"name":"Alice","phone":"+1000"}`, rr.Body.String())
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		mockSvc.On("Register", mock.Anything).Return(nil, service.ErrDuplicatePhone).Once()

		h := NewAuthHandler(mockSvc)
		body, _ := json.Marshal(map[string]string{
			"name": "Alice", "phone": "+1000", "password": "password1",
		})
		req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Register).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("invalid payload", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		h := NewAuthHandler(mockSvc)

		// Password below the minimum length fails validation before the
		// service is ever consulted.
		body, _ := json.Marshal(map[string]string{
			"name": "Alice", "phone": "+1000", "password": "short",
		})
		req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Register).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockSvc.AssertNotCalled(t, "Register", mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		mockSvc.On("Login", model.LoginRequest{Login: "+1000", Password: "password1"}).
			Return(model.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil).Once()

		h := NewAuthHandler(mockSvc)
		body, _ := json.Marshal(map[string]string{"login": "+1000", "password": "password1"})
		req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Login).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"access_token":"acc","refresh_token":"ref"}`, rr.Body.String())
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		mockSvc.On("Login", mock.Anything).
			Return(model.TokenPair{}, service.ErrInvalidCredentials).Once()

		h := NewAuthHandler(mockSvc)
		body, _ := json.Marshal(map[string]string{"login": "+1000", "password": "password1"})
		req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Login).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		// The response reveals the kind only, never which factor failed.
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("infrastructure failure", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		mockSvc.On("Login", mock.Anything).
			Return(model.TokenPair{}, errors.New("dial tcp: connection refused")).Once()

		h := NewAuthHandler(mockSvc)
		body, _ := json.Marshal(map[string]string{"login": "+1000", "password": "password1"})
		req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Login).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "dial tcp")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		mockSvc.On("Refresh", "the-refresh-token").
			Return(model.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}, nil).Once()

		h := NewAuthHandler(mockSvc)
		req := httptest.NewRequest("POST", "/api/v1/auth/refresh", nil)
		req.Header.Set("Authorization", "Bearer the-refresh-token")
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Refresh).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"access_token":"acc2","refresh_token":"ref2"}`, rr.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		h := NewAuthHandler(mockSvc)
		req := httptest.NewRequest("POST", "/api/v1/auth/refresh", nil)
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Refresh).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockSvc.AssertNotCalled(t, "Refresh", mock.Anything)
	})

	t.Run("malformed header", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		h := NewAuthHandler(mockSvc)
		req := httptest.NewRequest("POST", "/api/v1/auth/refresh", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Refresh).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		mockSvc := new(mockAuthService)
		mockSvc.On("Refresh", "stale").
			Return(model.TokenPair{}, service.ErrInvalidCredentials).Once()

		h := NewAuthHandler(mockSvc)
		req := httptest.NewRequest("POST", "/api/v1/auth/refresh", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rr := httptest.NewRecorder()

		ErrorHandlingMiddleware(h.Refresh).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
