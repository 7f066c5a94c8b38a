package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"codegen/internal/httputil"

	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request correlation id in both directions
const CorrelationIDHeader = "X-Correlation-ID"

// RequestLogger assigns every request a correlation id (reusing the client's
// when present), stores a request-scoped logger in the context and logs
// one line per completed request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(CorrelationIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(CorrelationIDHeader, id)

			requestLogger := logger.With(
				slog.String("correlation_id", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			r = httputil.WithCorrelationID(r, id)
			r = httputil.WithLogger(r, requestLogger)

			start := time.Now()
			rec := httputil.NewStatusRecorder(w)
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			if rec.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			requestLogger.Log(r.Context(), level, "request completed",
				slog.Int("status", rec.Status),
				slog.Duration("latency", time.Since(start)),
			)
		})
	}
}
