package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNoSession          = errors.New("no valid session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("access denied")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidation         = errors.New("validation failed")
)
