// Package web serves the cats front end: a server-rendered page driven by
// one catsync.Controller per browser session.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/catsfront/catsfront/internal/handler"
	"github.com/catsfront/catsfront/internal/middleware"
	"github.com/catsfront/catsfront/internal/model"
	"github.com/catsfront/catsfront/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// maxFormSize bounds form posts; the largest form has five short fields.
const maxFormSize int64 = 64 << 10

// Config configures the front end server.
type Config struct {
	Sessions      *session.Store
	Logger        *slog.Logger
	Info          *handler.Handler
	Health        *handler.HealthHandler
	Metrics       *handler.MetricsHandler
	IsDevelopment bool
	CookieSecure  bool
}

// Server renders the page and applies form posts to the session's
// controller.
type Server struct {
	cfg    Config
	logger *slog.Logger
	tmpl   *template.Template
	static http.Handler
}

// NewServer parses the embedded templates and builds a Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("web: missing session store")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"amount": model.FormatAmount,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &Server{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "web"),
		tmpl:   tmpl,
		static: http.StripPrefix("/static/", http.FileServer(http.FS(static))),
	}, nil
}

// limitForm caps request bodies without answering for the handler: an
// oversized form fails ParseForm and is reported as an alert.
func limitForm(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Handler returns the front end router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger, "/healthz", "/readyz", "/metrics", "/static/"))
	r.Use(middleware.Recoverer(s.logger, nil))
	r.Use(middleware.Security(middleware.PageSecurityConfig(s.cfg.IsDevelopment)))

	// Probes
	if s.cfg.Health != nil {
		r.Get("/healthz", s.cfg.Health.Healthz)
		r.Get("/readyz", s.cfg.Health.Readyz)
	}
	if s.cfg.Metrics != nil {
		r.Get("/metrics", s.cfg.Metrics.Metrics)
	}
	if s.cfg.Info != nil {
		r.Get("/info", s.cfg.Info.Info)
	}

	r.Handle("/static/*", s.static)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Use(limitForm(maxFormSize))

		r.Get("/", s.index)
		r.Post("/refresh", s.refresh)
		r.Post("/cats", s.create)
		r.Get("/cats/{id}/edit", s.openEdit)
		r.Post("/edit", s.update)
		r.Post("/edit/close", s.closeEdit)
		r.Get("/cats/{id}/delete", s.confirmDelete)
		r.Post("/cats/{id}/delete", s.delete)
	})

	return r
}
