package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap these with fmt.Errorf("%w: ...") and the HTTP
// layer maps them to status codes with errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrInternal     = errors.New("internal error")
)

// ErrInvalidCredentials is the single externally-visible authentication
// failure. Every login and code-verification failure collapses to it so that
// responses never reveal whether an account or code exists.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
