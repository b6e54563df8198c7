package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the beat service.
// Environment variables are parsed from the CAMPUSBEAT_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Feed and inbox limits
	FeedLimit    int `envconfig:"FEED_LIMIT" default:"50"`
	UpdatesLimit int `envconfig:"UPDATES_LIMIT" default:"20"`
	PastLimit    int `envconfig:"PAST_LIMIT" default:"10"`

	// ICS export horizon in days
	ExportHorizonDays int `envconfig:"EXPORT_HORIZON_DAYS" default:"90"`

	// Health monitor cadence
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Dev-only bearer tokens, comma-separated "token=userId" pairs. Empty in
	// production, where a real token verifier must be plugged in.
	DevTokens []string `envconfig:"DEV_TOKENS" default:""`
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.FeedLimit <= 0 || c.UpdatesLimit <= 0 || c.PastLimit <= 0 {
		return fmt.Errorf("feed, updates and past limits must be positive")
	}
	if c.IsProduction() && len(c.DevTokens) > 0 {
		return fmt.Errorf("DEV_TOKENS must not be set in production")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Variables are prefixed with CAMPUSBEAT_, e.g. CAMPUSBEAT_HTTP_PORT.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CAMPUSBEAT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Int("feed_limit", cfg.FeedLimit).
		Int("updates_limit", cfg.UpdatesLimit).
		Str("postgres_dsn_present", func() string {
			if cfg.PostgresDSN != "" {
				return "true"
			}
			return "false"
		}()).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		FeedLimit:                 50,
		UpdatesLimit:              20,
		PastLimit:                 10,
		ExportHorizonDays:         90,
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 2,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
