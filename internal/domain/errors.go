package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and repositories. Controllers map them to HTTP
// status codes with errors.Is. Validation failures use Invalid so the message can be
// shown to the client.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateEmail       = errors.New("email already in use")
	ErrInsufficientCapacity = errors.New("not enough seats available")
)

// ValidationError is an ErrInvalidInput carrying a client-facing message.
type ValidationError struct {
	Message string
}

// Invalid returns a ValidationError with the given message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return ErrInvalidInput.Error() + ": " + e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
