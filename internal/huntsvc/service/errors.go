package service

import (
	"errors"
	"fmt"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/store"
)

var (
	ErrNotFound        = store.ErrNotFound
	ErrConflict        = store.ErrConflict
	ErrInvalidKey      = errors.New("invalid admin key")
	ErrUnauthorized    = errors.New("admin authentication required")
	ErrSessionNotFound = errors.New("invalid or expired session")
	ErrSessionExpired  = errors.New("session expired")
)

// ValidationError reports a request that is well formed JSON but breaks a rule.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsAuthError reports whether err should be surfaced as 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionExpired)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
