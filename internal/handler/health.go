package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"codegen/internal/httputil"
)

// HealthHandler reports liveness and, when a probe is configured, storage reachability
type HealthHandler struct {
	environment string
	probe       func(ctx context.Context) error
	logger      *slog.Logger
}

// NewHealthHandler creates a health handler. probe may be nil.
func NewHealthHandler(environment string, probe func(ctx context.Context) error, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		probe:       probe,
		logger:      logger,
	}
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.probe != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.probe(ctx); err != nil {
			httputil.LoggerFrom(r.Context(), h.logger).Warn("health probe failed", "error", err)
			httputil.RespondError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}

	httputil.RespondSuccess(w, http.StatusOK, "Service is healthy", map[string]interface{}{
		"status":      "ok",
		"environment": h.environment,
		"time":        time.Now().UTC(),
	})
}
