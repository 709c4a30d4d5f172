package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/jub0bs/cors"

	"github.com/orionhq/dashboard/internal/settings"
)

// Config for the dashboard UI server
type Config struct {
	Environment    string        `env:"ORION_UI_ENVIRONMENT,default=dev"`
	Host           string        `env:"ORION_UI_HOST,default=127.0.0.1"`
	Port           int           `env:"ORION_UI_PORT,default=4200"`
	LogLevel       string        `env:"ORION_UI_LOG_LEVEL,default=debug"`
	ReadTimeout    time.Duration `env:"ORION_UI_READ_TIMEOUT,default=15s"`
	WriteTimeout   time.Duration `env:"ORION_UI_WRITE_TIMEOUT,default=15s"`
	IdleTimeout    time.Duration `env:"ORION_UI_IDLE_TIMEOUT,default=60s"`
	APIURL         string        `env:"ORION_UI_API_URL"` // empty = taken from the orion settings
	APITimeout     time.Duration `env:"ORION_UI_API_TIMEOUT,default=10s"`
	AllowedOrigins []string      `env:"ORION_UI_ALLOWED_ORIGINS,separator=|"`
	RateLimitRPS   int32         `env:"ORION_UI_RATE_LIMIT_RPS,default=50"`
	RateLimitBurst int32         `env:"ORION_UI_RATE_LIMIT_BURST,default=20"`

	// copied from the orion settings
	DefaultLimit int
}

const CORSMaxAgeInSeconds = 86400

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"perf":    true,
	"prod":    true,
	"staging": true,
}

// NewConfig reads the UI config from the process environment.
func NewConfig(orion settings.Settings) (*Config, error) {
	return NewConfigFrom(os.Environ(), orion)
}

// NewConfigFrom reads the UI config from environ.
// When ORION_UI_API_URL is not set the API address comes from the orion settings (ORION_HOST or the API host and port).
func NewConfigFrom(environ []string, orion settings.Settings) (*Config, error) {
	var cfg Config

	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = orion.APIURL()
	}
	cfg.DefaultLimit = orion.Orion.API.DefaultLimit

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the config. It is exported so callers that override fields
// (e.g. from command line flags) can check the result.
func (cfg *Config) Validate() error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, perf, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}
	if cfg.APITimeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %v", cfg.APITimeout)
	}

	u, err := url.ParseRequestURI(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("API URL is not a valid URL: %s", cfg.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL must use http or https: %s", cfg.APIURL)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("API URL does not include a host: %s", cfg.APIURL)
	}

	if cfg.Environment == "prod" {
		if len(cfg.AllowedOrigins) == 0 {
			return fmt.Errorf("ORION_UI_ALLOWED_ORIGINS must be set in %v", cfg.Environment)
		}
		if cfg.AllowedOrigins[0] == "*" {
			return fmt.Errorf("ORION_UI_ALLOWED_ORIGINS must not be set to '*' in %v", cfg.Environment)
		}
	}

	// default to all origins outside prod
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return nil
}

// NewCORSMiddleware builds the CORS middleware for the read-only JSON endpoints.
func NewCORSMiddleware(cfg *Config) (*cors.Middleware, error) {
	origins := make([]string, len(cfg.AllowedOrigins))
	for i, origin := range cfg.AllowedOrigins {
		origins[i] = strings.TrimSpace(origin)
	}

	middleware, err := cors.NewMiddleware(cors.Config{
		Origins: origins,
		Methods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
		},
		RequestHeaders: []string{
			"Content-Type",
			"X-Requested-With",
		},
		MaxAgeInSeconds: CORSMaxAgeInSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create CORS middleware: %w", err)
	}
	return middleware, nil
}
