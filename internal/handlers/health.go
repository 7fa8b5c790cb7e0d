package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"holidays-app/internal/contextutil"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ModelChecker reports whether the configured upstream model is served.
type ModelChecker interface {
	IsModelAvailable(ctx context.Context) (bool, error)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	models             ModelChecker
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. models may be nil to skip the upstream check.
func NewHealthHandler(db Pinger, models ModelChecker) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		models:             models,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP reports 200 when the database answers, 503 otherwise.
// An unavailable upstream model only degrades the status.
//
// swagger:route GET /health healthCheck
//
// # Health check
//
// ---
// produces:
// - application/json
//
// responses:
//
//	'200':
//	  description: Healthy or degraded
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: Database unavailable
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	status := "healthy"
	httpStatus := http.StatusOK

	if h.checkDatabase(checkCtx, logger) {
		checks["database"] = "ok"
	} else {
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.models != nil {
		if h.checkModel(checkCtx, logger) {
			checks["llm"] = "ok"
		} else {
			checks["llm"] = "error"
			issues = append(issues, "llm_unavailable")
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context, logger *slog.Logger) bool {
	if err := h.db.PingContext(ctx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		return false
	}
	return true
}

func (h *HealthHandler) checkModel(ctx context.Context, logger *slog.Logger) bool {
	ok, err := h.models.IsModelAvailable(ctx)
	if err != nil {
		logger.WarnContext(ctx, "llm health check failed", "error", err)
		return false
	}
	if !ok {
		logger.WarnContext(ctx, "configured model is not served by upstream")
	}
	return ok
}
