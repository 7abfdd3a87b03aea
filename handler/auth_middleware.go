package handler

import (
	"context"
	"net/http"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware authenticates the request's access token and stores the
// resolved user id in the request context.
func AuthMiddleware(auth IAuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := bearerToken(r)
			if appErr != nil {
				appErr.Send(w)
				return
			}

			user, err := auth.AuthenticateAccess(token)
			if err != nil {
				mapServiceError(err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
