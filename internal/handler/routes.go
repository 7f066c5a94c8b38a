package handler

import (
	"context"
	"log/slog"
	"net/http"

	"codegen/internal/auth"
	"codegen/internal/domain/services"
	"codegen/internal/metrics"
	"codegen/internal/middleware"

	"github.com/rs/cors"
)

// RouterConfig carries everything the HTTP surface depends on
type RouterConfig struct {
	Templates   services.TemplateService
	Projects    services.ProjectService
	Verifier    auth.JWTVerifier
	Environment string
	CORSOrigins []string
	HealthProbe func(ctx context.Context) error
	Logger      *slog.Logger
}

// NewRouter registers every route and wraps the mux in the middleware chain.
// Order: CORS → Recovery → RequestLogger → Metrics → Routes
func NewRouter(cfg RouterConfig) http.Handler {
	templateHandler := NewTemplateHandler(cfg.Templates, cfg.Logger)
	projectHandler := NewProjectHandler(cfg.Projects, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Environment, cfg.HealthProbe, cfg.Logger)

	required := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	optional := middleware.OptionalAuth(cfg.Verifier, cfg.Logger)

	protect := func(h http.HandlerFunc) http.Handler { return required(h) }
	public := func(h http.HandlerFunc) http.Handler { return optional(h) }

	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.Handle("GET /metrics", metrics.Handler())

	// Template routes
	mux.Handle("POST /api/v1/templates", protect(templateHandler.CreateTemplate))
	mux.Handle("GET /api/v1/templates", public(templateHandler.ListTemplates))
	mux.Handle("GET /api/v1/templates/{id}", public(templateHandler.GetTemplate))
	mux.Handle("POST /api/v1/templates/{id}/preview", public(templateHandler.PreviewTemplate))
	mux.Handle("PUT /api/v1/templates/{id}", protect(templateHandler.UpdateTemplate))
	mux.Handle("PATCH /api/v1/templates/{id}", protect(templateHandler.UpdateTemplate))
	mux.Handle("DELETE /api/v1/templates/{id}", protect(templateHandler.DeleteTemplate))

	// Project routes
	mux.Handle("POST /api/v1/projects", protect(projectHandler.CreateProject))
	mux.Handle("GET /api/v1/projects", protect(projectHandler.ListProjects))
	mux.Handle("GET /api/v1/projects/recent", protect(projectHandler.RecentProjects))
	mux.Handle("GET /api/v1/projects/{id}", public(projectHandler.GetProject))
	mux.Handle("PUT /api/v1/projects/{id}", protect(projectHandler.UpdateProject))
	mux.Handle("PATCH /api/v1/projects/{id}", protect(projectHandler.UpdateProject))
	mux.Handle("DELETE /api/v1/projects/{id}", protect(projectHandler.DeleteProject))
	mux.Handle("POST /api/v1/projects/{id}/generate", protect(projectHandler.GenerateCode))
	mux.Handle("GET /api/v1/projects/{id}/code", public(projectHandler.GetGeneratedCode))

	// CORS must run before auth so OPTIONS pre-flight requests pass
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(middleware.Chain(mux,
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogger(cfg.Logger),
		metrics.HTTPMiddleware,
	))
}
