package main

import (
	"fmt"
	"log/slog"

	"github.com/jungle/notifications-service/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfigSummary logs non-secret configuration once the logger is ready.
func logConfigSummary(cfg *config.Config, logger *slog.Logger) {
	logger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"exchange", cfg.Broker.Exchange,
		"queue", cfg.Broker.Queue,
		"routing_patterns", cfg.Broker.Patterns(),
		"prefetch", cfg.Broker.Prefetch,
		"realtime_path", cfg.Realtime.Path)
	logger.Debug("auth configuration", "jwt_secret_present", cfg.Auth.JWTSecret != "")
}
