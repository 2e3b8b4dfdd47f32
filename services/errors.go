package services

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("operation not allowed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is deactivated")
)
