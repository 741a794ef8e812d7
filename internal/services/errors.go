package services

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateAccount   = errors.New("an account with this email already exists")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateRequest   = errors.New("request already exists")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrRequestFailed      = errors.New("request failed")
	ErrNotApplicable      = errors.New("no connection relationship with yourself")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrFeatureDisabled    = errors.New("feature not configured")
)

// ValidationError is a client-side input problem. Message is shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err carries a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, op, err)
}

func failed(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRequestFailed, op, err)
}
