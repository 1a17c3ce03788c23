// Package cli provides common initialization for cmd/tally: logging, .env
// loading, configuration and the slot repository.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"tally/internal/config"
	applog "tally/internal/log"
	"tally/internal/services"
	"tally/internal/storage"
)

// SetupLogger initializes structured logging with the given level and sets
// it as the default logger.
func SetupLogger(level slog.Level) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     level,
		Component: applog.ComponentCLI,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitService opens the slot repository and loads the ledger service from
// it, or exits the process on failure.
func InitService(ctx context.Context, logger *applog.Logger, dbPath string) *services.LedgerService {
	repo, err := storage.NewSlotRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize slot repository", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	svc, err := services.NewLedgerService(ctx, repo)
	if err != nil {
		repo.Close()
		logger.Error("Failed to load ledger state", applog.FieldError, err)
		os.Exit(1)
	}
	return svc
}
