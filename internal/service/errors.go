package service

import (
	"context"
	"errors"
	"fmt"

	"holidays-app/internal/relay"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested holiday does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when the upstream model call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is match a ValidationError against ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// upstreamError marks err as an upstream failure. Deadline errors also match relay.ErrTimeout
// so callers can tell a slow model from a broken one.
func upstreamError(err error) error {
	if errors.Is(err, relay.ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %w", ErrExternalService, relay.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrExternalService, err)
}
