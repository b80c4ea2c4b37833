// Package cli provides the wallet's terminal front end and the
// initialization helpers cmd/wallet shares with it.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"wallet/internal/config"
	"wallet/internal/log"
)

// SetupLogger initializes structured logging at the given level and sets
// it as the default logger. Output goes to stderr so command output on
// stdout stays clean.
func SetupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = log.ComponentCLI
	cfg.Output = os.Stderr

	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, err
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.NewFields().
			WithComponent(log.ComponentConfig).
			WithOperation(log.OpStartup).
			WithErrorType(log.ErrorTypeConfiguration).
			WithError(err).
			ToSlice()...)
		return nil, err
	}
	return cfg, nil
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
