// Package config defines the top-level configuration for the sync service
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by POLYSYNC_* environment
// variables.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Database   DatabaseConfig   `toml:"database"`
	Sync       SyncConfig       `toml:"sync"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds Gamma API endpoint parameters.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
}

// DatabaseConfig holds the persisted-store connection string. A PostgreSQL
// DSN selects the postgres driver; anything else is treated as a SQLite file
// path.
type DatabaseConfig struct {
	DSN string `toml:"dsn"`
}

// SyncConfig holds fetch and reconcile parameters.
type SyncConfig struct {
	IntervalSeconds int  `toml:"interval_seconds"`
	MaxEvents       int  `toml:"max_events"`
	SnapshotPrices  bool `toml:"snapshot_prices"`
}

// Defaults returns the built-in configuration: local SQLite file, public
// Gamma host, five-minute update interval.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
		},
		Database: DatabaseConfig{
			DSN: "polymarket.db",
		},
		Sync: SyncConfig{
			IntervalSeconds: 300,
			MaxEvents:       0,
			SnapshotPrices:  false,
		},
		Mode:     "populate",
		LogLevel: "info",
	}
}

// Validate checks the configuration for values the application cannot run
// with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "populate", "update", "report":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("config: database.dsn must not be empty")
	}
	if strings.TrimSpace(c.Polymarket.GammaHost) == "" {
		return fmt.Errorf("config: polymarket.gamma_host must not be empty")
	}
	if c.Sync.IntervalSeconds <= 0 {
		return fmt.Errorf("config: sync.interval_seconds must be positive, got %d", c.Sync.IntervalSeconds)
	}
	if c.Sync.MaxEvents < 0 {
		return fmt.Errorf("config: sync.max_events must not be negative, got %d", c.Sync.MaxEvents)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log_level %q", c.LogLevel)
	}

	return nil
}
