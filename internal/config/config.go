package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wallet/internal/core"
)

type Config struct {
	// Storage
	DataBackend  string
	DataDir      string
	SQLiteDBPath string

	// Ledger
	OpeningBalance string
	TopCategories  int

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", "file"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/wallet.db"),

		OpeningBalance: getEnv("OPENING_BALANCE", "5000"),
		TopCategories:  getEnvInt("TOP_CATEGORIES", 5),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "file", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		} else if msg := ensureDir(c.DataDir); msg != "" {
			errors = append(errors, msg)
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if msg := ensureDir(dir); msg != "" {
				errors = append(errors, msg)
			}
		}
	}

	if _, err := c.OpeningBalanceCents(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid opening balance '%s': %v", c.OpeningBalance, err))
	}

	if c.TopCategories < 1 {
		errors = append(errors, fmt.Sprintf("invalid top categories %d: must be at least 1", c.TopCategories))
	} else if c.TopCategories > 50 {
		errors = append(errors, fmt.Sprintf("invalid top categories %d: must be at most 50", c.TopCategories))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// OpeningBalanceCents parses OpeningBalance. Zero is allowed.
func (c *Config) OpeningBalanceCents() (int64, error) {
	return core.ParseBalanceToCents(c.OpeningBalance)
}

func ensureDir(dir string) string {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("cannot create data directory '%s': %v", dir, err)
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
