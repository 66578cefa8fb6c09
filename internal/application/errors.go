package application

import "errors"

// Errors returned to the transport layer. Anything else is internal.
var (
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidPassword      = errors.New("password must be between 8 and 72 bytes")
	ErrDuplicateEmail       = errors.New("the email address provided is already in use")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
)
