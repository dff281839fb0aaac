// Package main is the entrypoint for the cats collection API.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/catsfront/catsfront/internal/cache"
	"github.com/catsfront/catsfront/internal/config"
	"github.com/catsfront/catsfront/internal/handler"
	"github.com/catsfront/catsfront/internal/logging"
	"github.com/catsfront/catsfront/internal/metrics"
	"github.com/catsfront/catsfront/internal/middleware"
	"github.com/catsfront/catsfront/internal/repository"
	"github.com/catsfront/catsfront/internal/server"
	"github.com/catsfront/catsfront/internal/service"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadAPI()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// Registered on the server, which closes them in reverse order.
	type closer struct {
		name string
		fn   server.ShutdownFunc
	}
	var closers []closer

	// Initialize store
	var store service.Store
	var dbCheck handler.HealthChecker
	if cfg.DatabaseURL != "" {
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			repo.Close()
			os.Exit(1)
		}
		closers = append(closers, closer{"postgres", func(context.Context) error {
			repo.Close()
			return nil
		}})
		store, dbCheck = repo, repo
		logger.Info("connected to database")
	} else {
		store = repository.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	// Initialize cache
	var catCache service.Cache
	var limiter middleware.IPLimiter
	var cacheCheck handler.HealthChecker
	if cfg.RedisURL != "" {
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		closers = append(closers, closer{"redis", func(context.Context) error {
			return cacheClient.Close()
		}})
		catCache, limiter, cacheCheck = cacheClient, cacheClient, cacheClient
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set, cat cache and rate limiting disabled")
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	catService := service.NewCatService(store, catCache, recorder, logger)

	// Setup router
	r := handler.NewAPIRouter(handler.APIRouterConfig{
		Info: handler.New("catsapi", version),
		Health: handler.NewHealthHandler(
			handler.Check{Name: "postgres", Checker: dbCheck},
			handler.Check{Name: "redis", Checker: cacheCheck},
		),
		Metrics:            handler.NewMetricsHandler(recorder),
		Cats:               handler.NewCatHandler(catService, logger),
		Logger:             logger,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		RateLimit: middleware.RateLimitConfig{
			Logger:        logger,
			Limiter:       limiter,
			Enabled:       cfg.RateLimitEnabled,
			RPS:           cfg.RateLimitRPS,
			Burst:         cfg.RateLimitBurst,
			MutationsOnly: true,
		},
	})

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	for _, c := range closers {
		srv.OnShutdown(c.name, c.fn)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"version", version,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
