// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Common holds settings shared by both binaries.
type Common struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Common) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Common) IsProduction() bool {
	return c.AppEnv == "production"
}

// WebConfig configures the catsweb front end.
type WebConfig struct {
	Common

	AppPort int `env:"APP_PORT" envDefault:"8080"`

	// Remote collection resource
	CatsAPIURL     string        `env:"CATS_API_URL" envDefault:"https://catscrudrender.onrender.com"`
	CatsAPITimeout time.Duration `env:"CATS_API_TIMEOUT" envDefault:"15s"`

	// Sessions
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SessionMax          int           `env:"SESSION_MAX" envDefault:"10000"`
}

// APIConfig configures the catsapi collection resource.
type APIConfig struct {
	Common

	AppPort int `env:"APP_PORT" envDefault:"8000"`

	// Database (PostgreSQL). Empty selects the in-memory store.
	DatabaseURL string `env:"DATABASE_URL"`

	// Cache (Redis). Empty disables the cat cache and rate limiting.
	RedisURL string `env:"REDIS_URL"`

	// Rate limiting
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *APIConfig) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// LoadWeb parses environment variables and returns a WebConfig.
func LoadWeb() (*WebConfig, error) {
	cfg := &WebConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *WebConfig) validate() error {
	if !strings.HasPrefix(c.CatsAPIURL, "http://") && !strings.HasPrefix(c.CatsAPIURL, "https://") {
		return fmt.Errorf("CATS_API_URL must be an http or https URL, got %q", c.CatsAPIURL)
	}
	if c.CatsAPITimeout <= 0 {
		return fmt.Errorf("CATS_API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SessionMax <= 0 {
		return fmt.Errorf("SESSION_MAX must be positive")
	}
	return nil
}

// LoadAPI parses environment variables and returns an APIConfig.
func LoadAPI() (*APIConfig, error) {
	cfg := &APIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.RateLimitEnabled && (cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0) {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	return cfg, nil
}
