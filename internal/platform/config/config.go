// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, catalog chain) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Storage Backends

// Interaction store backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendRedis    = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the recommendation API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath overrides the embedded SQL migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL"`

	// Interaction store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	BadgerPath   string `env:"BADGER_PATH"   envDefault:"./data/interactions"`

	// Catalog sources, tried in order: database, files, URL, embedded seed.
	CatalogFromDatabase   bool          `env:"CATALOG_FROM_DATABASE"   envDefault:"false"`
	CatalogFiles          []string      `env:"CATALOG_FILES"           envDefault:"./movies.csv,../movies.csv" envSeparator:","`
	CatalogURL            string        `env:"CATALOG_URL"`
	CatalogReloadInterval time.Duration `env:"CATALOG_RELOAD_INTERVAL" envDefault:"0s"`

	// Interaction events
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"interactions"`

	// Access tokens
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Recommendation tuning
	TopLabels    int `env:"RECOMMEND_TOP_LABELS"    envDefault:"3"`
	MinExact     int `env:"RECOMMEND_MIN_EXACT"     envDefault:"3"`
	DefaultLimit int `env:"RECOMMEND_DEFAULT_LIMIT" envDefault:"10"`
}

// devJWTSecret keeps local development usable without any setup.
const devJWTSecret = "development-only-secret"

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendMemory, BackendBadger:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store backend"))
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis store backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.CatalogFromDatabase && c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required when CATALOG_FROM_DATABASE is set"))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}

	if c.TopLabels < 1 {
		errs = append(errs, errors.New("RECOMMEND_TOP_LABELS must be positive"))
	}
	if c.MinExact < 0 {
		errs = append(errs, errors.New("RECOMMEND_MIN_EXACT must not be negative"))
	}
	if c.DefaultLimit < 1 {
		errs = append(errs, errors.New("RECOMMEND_DEFAULT_LIMIT must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// UsesDatabase reports whether any component needs the PostgreSQL pool.
func (c *Config) UsesDatabase() bool {
	return c.StoreBackend == BackendPostgres || c.CatalogFromDatabase || c.DatabaseURL != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
