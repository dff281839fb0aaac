package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/catsfront/catsfront/internal/middleware"
)

// DefaultMaxRequestBodySize applies when APIRouterConfig leaves the limit unset.
const DefaultMaxRequestBodySize int64 = 1 << 20

// APIRouterConfig wires the collection API's handlers and middleware.
type APIRouterConfig struct {
	Info    *Handler
	Health  *HealthHandler
	Metrics *MetricsHandler
	Cats    *CatHandler
	Logger  *slog.Logger

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
	RateLimit          middleware.RateLimitConfig
}

// NewAPIRouter builds the collection API router. Collection paths are
// served with and without a trailing slash.
func NewAPIRouter(cfg APIRouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = DefaultMaxRequestBodySize
	}
	if cfg.RateLimit.Logger == nil {
		cfg.RateLimit.Logger = cfg.Logger
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger, "/healthz", "/readyz", "/metrics"))
	r.Use(middleware.Recoverer(cfg.Logger, middleware.JSONInternalError))
	r.Use(middleware.Security(middleware.APISecurityConfig(cfg.IsDevelopment)))
	r.Use(middleware.CORS(corsCfg))

	// Probes
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}
	r.Get("/", cfg.Info.Info)

	r.Route("/cats", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(cfg.RateLimit))
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

		r.Get("/", cfg.Cats.List)
		r.Post("/", cfg.Cats.Create)

		r.Route("/{"+CatIDParam+"}", func(r chi.Router) {
			r.Use(middleware.RequireIntParam(CatIDParam))
			r.Get("/", cfg.Cats.Get)
			r.Put("/", cfg.Cats.Update)
			r.Delete("/", cfg.Cats.Delete)
		})
	})

	r.NotFound(cfg.Info.NotFound)
	r.MethodNotAllowed(cfg.Info.MethodNotAllowed)

	return r
}
