package profile

import "errors"

// Module errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileIncomplete  = errors.New("profile is incomplete")
)
