package router

import (
	"go-user-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, authService handler.IAuthService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /api/v1/auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /api/v1/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/v1/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))

	mux.Handle("GET /api/v1/users/{id}", handler.ErrorHandlingMiddleware(userHandler.GetUser))
	mux.Handle("GET /api/v1/users", handler.ErrorHandlingMiddleware(userHandler.ListUsers))

	// Profile updates require a valid access token.
	authRequired := handler.AuthMiddleware(authService)
	mux.Handle("PUT /api/v1/users/{id}", authRequired(handler.ErrorHandlingMiddleware(userHandler.UpdateUser)))

	return mux
}
