package model

import "github.com/golang-jwt/jwt/v5"

// Token purposes. A token is only ever valid for the purpose it was
// issued with; the session layer checks this on every use.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

type AppClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}
