package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"holidays-app/internal/relay"
)

func TestValidationError(t *testing.T) {
	var err error = &ValidationError{Field: "title", Message: "cannot be empty"}
	wrapped := WrapError(err, "create holiday")

	if got, want := wrapped.Error(), "create holiday: validation error on field title: cannot be empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, ErrInvalidInput) {
		t.Error("wrapped ValidationError should match ErrInvalidInput")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("ValidationError should not match ErrNotFound")
	}

	var validationErr *ValidationError
	if !errors.As(wrapped, &validationErr) || validationErr.Field != "title" {
		t.Errorf("errors.As() field = %v, want title", validationErr)
	}
}

func TestWrapError_Nil(t *testing.T) {
	if got := WrapError(nil, "context"); got != nil {
		t.Errorf("WrapError(nil) = %v, want nil", got)
	}
}

func TestUpstreamError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantTimeout bool
	}{
		{
			name: "plain upstream failure",
			err:  errors.New("connection refused"),
		},
		{
			name:        "pipeline deadline",
			err:         fmt.Errorf("llm-call: %w", context.DeadlineExceeded),
			wantTimeout: true,
		},
		{
			name:        "relay idle timeout",
			err:         &relay.TimeoutError{},
			wantTimeout: true,
		},
		{
			name: "source failure",
			err:  &relay.SourceError{Err: errors.New("reset")},
		},
		{
			name: "caller cancelled",
			err:  context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := upstreamError(tt.err)
			if !errors.Is(got, ErrExternalService) {
				t.Errorf("upstreamError() = %v, want ErrExternalService", got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("upstreamError() = %v, should wrap the cause", got)
			}
			if errors.Is(got, relay.ErrTimeout) != tt.wantTimeout {
				t.Errorf("errors.Is(ErrTimeout) = %v, want %v", !tt.wantTimeout, tt.wantTimeout)
			}
		})
	}
}
