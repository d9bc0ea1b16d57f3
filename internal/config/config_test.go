package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Polymarket.GammaHost != "https://gamma-api.polymarket.com" {
		t.Errorf("GammaHost = %q, want public Gamma host", cfg.Polymarket.GammaHost)
	}
	if cfg.Database.DSN != "polymarket.db" {
		t.Errorf("DSN = %q, want polymarket.db", cfg.Database.DSN)
	}
	if cfg.Sync.IntervalSeconds != 300 {
		t.Errorf("IntervalSeconds = %d, want 300", cfg.Sync.IntervalSeconds)
	}
	if cfg.Sync.SnapshotPrices {
		t.Error("SnapshotPrices = true, want false by default")
	}
	if cfg.Mode != "populate" {
		t.Errorf("Mode = %q, want populate", cfg.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults().Validate() error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Sync.IntervalSeconds != 300 {
			t.Errorf("IntervalSeconds = %d, want default 300", cfg.Sync.IntervalSeconds)
		}
	})

	t.Run("toml overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		data := `
mode = "update"
log_level = "debug"

[database]
dsn = "custom.db"

[sync]
interval_seconds = 60
max_events = 1000
snapshot_prices = true
`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Mode != "update" {
			t.Errorf("Mode = %q, want update", cfg.Mode)
		}
		if cfg.Database.DSN != "custom.db" {
			t.Errorf("DSN = %q, want custom.db", cfg.Database.DSN)
		}
		if cfg.Sync.IntervalSeconds != 60 {
			t.Errorf("IntervalSeconds = %d, want 60", cfg.Sync.IntervalSeconds)
		}
		if cfg.Sync.MaxEvents != 1000 {
			t.Errorf("MaxEvents = %d, want 1000", cfg.Sync.MaxEvents)
		}
		if !cfg.Sync.SnapshotPrices {
			t.Error("SnapshotPrices = false, want true")
		}
		// A field the file does not set keeps its default.
		if cfg.Polymarket.GammaHost != "https://gamma-api.polymarket.com" {
			t.Errorf("GammaHost = %q, want default retained", cfg.Polymarket.GammaHost)
		}
	})

	t.Run("malformed toml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte(`mode = [unclosed`), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("Load returned nil error for malformed file")
		}
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("polysync variables win over file", func(t *testing.T) {
		t.Setenv("POLYSYNC_DATABASE_DSN", "env.db")
		t.Setenv("POLYSYNC_MODE", "report")
		t.Setenv("POLYSYNC_SYNC_INTERVAL_SECONDS", "45")
		t.Setenv("POLYSYNC_SYNC_SNAPSHOT_PRICES", "true")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Database.DSN != "env.db" {
			t.Errorf("DSN = %q, want env.db", cfg.Database.DSN)
		}
		if cfg.Mode != "report" {
			t.Errorf("Mode = %q, want report", cfg.Mode)
		}
		if cfg.Sync.IntervalSeconds != 45 {
			t.Errorf("IntervalSeconds = %d, want 45", cfg.Sync.IntervalSeconds)
		}
		if !cfg.Sync.SnapshotPrices {
			t.Error("SnapshotPrices = false, want true")
		}
	})

	t.Run("database url alias", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://app@localhost/polysync")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Database.DSN != "postgres://app@localhost/polysync" {
			t.Errorf("DSN = %q, want DATABASE_URL value", cfg.Database.DSN)
		}
	})

	t.Run("specific variable beats alias", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://app@localhost/polysync")
		t.Setenv("POLYSYNC_DATABASE_DSN", "specific.db")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Database.DSN != "specific.db" {
			t.Errorf("DSN = %q, want specific.db", cfg.Database.DSN)
		}
	})

	t.Run("unparsable numbers are ignored", func(t *testing.T) {
		t.Setenv("POLYSYNC_SYNC_INTERVAL_SECONDS", "soon")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if cfg.Sync.IntervalSeconds != 300 {
			t.Errorf("IntervalSeconds = %d, want default 300", cfg.Sync.IntervalSeconds)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"update mode", func(c *Config) { c.Mode = "update" }, false},
		{"report mode", func(c *Config) { c.Mode = "Report" }, false},
		{"unknown mode", func(c *Config) { c.Mode = "trade" }, true},
		{"empty dsn", func(c *Config) { c.Database.DSN = " " }, true},
		{"empty gamma host", func(c *Config) { c.Polymarket.GammaHost = "" }, true},
		{"zero interval", func(c *Config) { c.Sync.IntervalSeconds = 0 }, true},
		{"negative max events", func(c *Config) { c.Sync.MaxEvents = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"empty log level", func(c *Config) { c.LogLevel = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
