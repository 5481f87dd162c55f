package identity

import "errors"

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
)
