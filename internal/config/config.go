// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/ingest and the scraping packages.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultBaseURL           = "https://www.transfermarkt.us"
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultRequestsPerMinute = 30
)

// --------------------------------------------------------------------------
// Table names, shared by internal/db and internal/seed
// --------------------------------------------------------------------------

const (
	PlayersTable = "transfermarkt_players"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Scraping
	BaseURL           string
	UserAgent         string
	RequestsPerMinute int
	HTTPTimeout       time.Duration

	// Batch
	Workers         int
	MaxFailures     int // 0 disables the threshold
	SkipFailedClubs bool

	// Database (optional, only used by --db)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Logging
	LogLevel string
	Debug    bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:           strings.TrimRight(envOr("TM_BASE_URL", DefaultBaseURL), "/"),
		UserAgent:         envOr("TM_USER_AGENT", DefaultUserAgent),
		RequestsPerMinute: envInt("TM_REQUESTS_PER_MINUTE", DefaultRequestsPerMinute),
		HTTPTimeout:       time.Duration(envInt("TM_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,

		Workers:         envInt("TM_WORKERS", 1),
		MaxFailures:     envInt("TM_MAX_FAILURES", 0),
		SkipFailedClubs: envBool("TM_SKIP_FAILED_CLUBS", false),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		LogLevel: envOr("LOG_LEVEL", "info"),
		Debug:    envBool("DEBUG", false),
	}

	if cfg.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("TM_REQUESTS_PER_MINUTE must be positive, got %d", cfg.RequestsPerMinute)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("TM_WORKERS must be at least 1, got %d", cfg.Workers)
	}
	return cfg, nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	return nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}
