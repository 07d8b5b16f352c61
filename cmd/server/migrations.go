package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jungle/notifications-service/internal/config"
	"github.com/jungle/notifications-service/internal/platform/postgres"
)

// runMigrations applies the embedded schema migrations when auto-migrate is on.
func runMigrations(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) error {
	if !cfg.Database.AutoMigrate {
		logger.Info("automatic migrations disabled")
		return nil
	}

	if err := postgres.Migrate(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := postgres.MigrationVersion(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("database schema up to date", "version", version)
	return nil
}
