// Package main is the entrypoint for the cats front end.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catsfront/catsfront/internal/apiclient"
	"github.com/catsfront/catsfront/internal/catsync"
	"github.com/catsfront/catsfront/internal/config"
	"github.com/catsfront/catsfront/internal/handler"
	"github.com/catsfront/catsfront/internal/logging"
	"github.com/catsfront/catsfront/internal/metrics"
	"github.com/catsfront/catsfront/internal/server"
	"github.com/catsfront/catsfront/internal/session"
	"github.com/catsfront/catsfront/internal/web"
)

var version = "dev"

const sessionSweepInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadWeb()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	recorder := metrics.NewInMemory()
	httpClient := apiclient.NewHTTPClient(cfg.CatsAPITimeout)

	// The probe client carries no hooks; readiness checks are not user
	// requests.
	probe, err := apiclient.New(cfg.CatsAPIURL, apiclient.WithHTTPClient(httpClient))
	if err != nil {
		logger.Error("invalid cats API URL", "error", err)
		os.Exit(1)
	}

	sessions := session.NewStore(session.Options{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.SessionMax,
		Logger:      logger,
		NewController: func(s *session.Session) *catsync.Controller {
			// The URL was validated by the probe client above.
			client, _ := apiclient.New(cfg.CatsAPIURL,
				apiclient.WithHTTPClient(httpClient),
				apiclient.WithHooks(
					apiclient.BusyHook(s.Busy),
					apiclient.LogHook(logger.With("session_id", s.ID)),
					apiclient.MetricsHook(recorder),
				),
			)
			return catsync.New(client, s, catsync.Options{
				Logger:  logger.With("session_id", s.ID),
				Metrics: recorder,
				Busy:    s.Busy,
			})
		},
	})
	sessions.StartJanitor(sessionSweepInterval)

	webServer, err := web.NewServer(web.Config{
		Sessions:      sessions,
		Logger:        logger,
		Info:          handler.New("catsweb", version),
		Health:        handler.NewHealthHandler(handler.Check{Name: "cats_api", Checker: probe}),
		Metrics:       handler.NewMetricsHandler(recorder),
		IsDevelopment: cfg.IsDevelopment(),
		CookieSecure:  cfg.SessionCookieSecure,
	})
	if err != nil {
		logger.Error("failed to build web server", "error", err)
		os.Exit(1)
	}

	srv := server.New(webServer.Handler(), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	srv.OnShutdown("sessions", sessions.Close)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"cats_api_url", probe.BaseURL(),
		"env", cfg.AppEnv,
		"version", version,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
