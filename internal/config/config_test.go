package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(dir string) Config {
	return Config{
		DataBackend:    "file",
		DataDir:        dir,
		SQLiteDBPath:   filepath.Join(dir, "wallet.db"),
		OpeningBalance: "5000",
		TopCategories:  5,
		LogLevel:       "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid file backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid memory backend without paths",
			mutate: func(c *Config) { c.DataBackend = "memory"; c.DataDir = ""; c.SQLiteDBPath = "" },
		},
		{
			name:   "valid sqlite backend config",
			mutate: func(c *Config) { c.DataBackend = "sqlite" },
		},
		{
			name:   "zero opening balance is allowed",
			mutate: func(c *Config) { c.OpeningBalance = "0" },
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory file sqlite]",
		},
		{
			name:        "file backend missing data directory",
			mutate:      func(c *Config) { c.DataDir = "" },
			wantErr:     true,
			errorString: "data directory cannot be empty when using file backend",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.DataBackend = "sqlite"; c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "negative opening balance",
			mutate:      func(c *Config) { c.OpeningBalance = "-10" },
			wantErr:     true,
			errorString: "invalid opening balance '-10'",
		},
		{
			name:        "non-numeric opening balance",
			mutate:      func(c *Config) { c.OpeningBalance = "lots" },
			wantErr:     true,
			errorString: "invalid opening balance 'lots'",
		},
		{
			name:        "top categories too small",
			mutate:      func(c *Config) { c.TopCategories = 0 },
			wantErr:     true,
			errorString: "invalid top categories 0: must be at least 1",
		},
		{
			name:        "top categories too large",
			mutate:      func(c *Config) { c.TopCategories = 51 },
			wantErr:     true,
			errorString: "invalid top categories 51: must be at most 50",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(dir)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{DataBackend: "nope", OpeningBalance: "x", TopCategories: 0, LogLevel: "x"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 4 {
		t.Errorf("Config.Validate() reported %d problems, want 4: %v", got, err)
	}
}

func TestConfig_ValidateCreatesDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := validConfig(filepath.Join(base, "nested", "data"))
	cfg.DataBackend = "sqlite"
	cfg.SQLiteDBPath = filepath.Join(base, "db", "wallet.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "db")); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestConfig_OpeningBalanceCents(t *testing.T) {
	cfg := Config{OpeningBalance: "5000"}
	cents, err := cfg.OpeningBalanceCents()
	if err != nil {
		t.Fatalf("OpeningBalanceCents() error = %v", err)
	}
	if cents != 500000 {
		t.Errorf("OpeningBalanceCents() = %d, want 500000", cents)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{"DATA_BACKEND", "DATA_DIR", "SQLITE_DB_PATH", "OPENING_BALANCE", "TOP_CATEGORIES", "LOG_LEVEL"}

	t.Run("default values", func(t *testing.T) {
		for _, key := range keys {
			t.Setenv(key, "")
		}

		cfg := Load()

		if cfg.DataBackend != "file" {
			t.Errorf("Load() DataBackend = %v, want file", cfg.DataBackend)
		}
		if cfg.DataDir != "./data" {
			t.Errorf("Load() DataDir = %v, want ./data", cfg.DataDir)
		}
		if cfg.SQLiteDBPath != "./data/wallet.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/wallet.db", cfg.SQLiteDBPath)
		}
		if cfg.OpeningBalance != "5000" {
			t.Errorf("Load() OpeningBalance = %v, want 5000", cfg.OpeningBalance)
		}
		if cfg.TopCategories != 5 {
			t.Errorf("Load() TopCategories = %v, want 5", cfg.TopCategories)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "sqlite")
		t.Setenv("DATA_DIR", "/tmp/wallet")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("OPENING_BALANCE", "1200.50")
		t.Setenv("TOP_CATEGORIES", "3")
		t.Setenv("LOG_LEVEL", "debug")

		cfg := Load()

		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.DataDir != "/tmp/wallet" {
			t.Errorf("Load() DataDir = %v, want /tmp/wallet", cfg.DataDir)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.OpeningBalance != "1200.50" {
			t.Errorf("Load() OpeningBalance = %v, want 1200.50", cfg.OpeningBalance)
		}
		if cfg.TopCategories != 3 {
			t.Errorf("Load() TopCategories = %v, want 3", cfg.TopCategories)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("TOP_CATEGORIES", "many")

		cfg := Load()

		if cfg.TopCategories != 5 {
			t.Errorf("Load() TopCategories = %v, want 5 (default for invalid input)", cfg.TopCategories)
		}
	})
}
