package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/relay"
	"holidays-app/internal/service"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	// Check for wrapped errors
	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	if errors.Is(err, relay.ErrTimeout) {
		writeError(w, http.StatusGatewayTimeout, "Upstream timed out")
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	// Default to internal server error
	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// streamErrorMessage is the client-facing text for an error that ended a stream.
func streamErrorMessage(err error) string {
	var timeoutErr *relay.TimeoutError
	var sourceErr *relay.SourceError
	switch {
	case errors.As(err, &timeoutErr):
		return timeoutErr.Error()
	case errors.As(err, &sourceErr):
		return "upstream stream failed"
	case errors.Is(err, relay.ErrCancelled):
		return "stream cancelled"
	default:
		return "stream failed"
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
