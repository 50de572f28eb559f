package service

import "errors"

// Transport layers map these with errors.Is; causes are wrapped, never
// shown to clients.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorage            = errors.New("storage error")
)
