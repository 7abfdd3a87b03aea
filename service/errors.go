// file: service/errors.go

package service

import "errors"

// Service-level error kinds. Handlers map these to HTTP statuses; anything
// else coming out of a service is an infrastructure failure.
var (
	// ErrInvalidCredentials covers every authentication denial: unknown
	// login, wrong password, bad/expired/wrong-purpose token, unknown token
	// subject. Callers cannot tell which factor failed.
	ErrInvalidCredentials = errors.New("could not validate credentials")

	// ErrDuplicatePhone is a registration (or phone-change) conflict.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrNotFound is a profile lookup on a nonexistent user.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidToken is internal to the token service. It never crosses
	// the service boundary: callers re-wrap it as ErrInvalidCredentials.
	ErrInvalidToken = errors.New("invalid token")
)
