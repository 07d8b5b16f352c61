package config

import (
	"strings"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Broker   BrokerConfig   `mapstructure:"broker" validate:"required"`
	Realtime RealtimeConfig `mapstructure:"realtime" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// AuthConfig contains the settings needed to verify access tokens issued by
// the auth service.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// BrokerConfig describes the topic exchange the consumer attaches to and the
// queue it drains.
type BrokerConfig struct {
	URL                     string        `mapstructure:"url" validate:"required,url"`
	Exchange                string        `mapstructure:"exchange" validate:"required"`
	Queue                   string        `mapstructure:"queue" validate:"required"`
	RoutingPatterns         string        `mapstructure:"routing_patterns" validate:"required"`
	DeadLetterExchange      string        `mapstructure:"dead_letter_exchange"`
	Prefetch                int           `mapstructure:"prefetch" validate:"gte=1,lte=1000"`
	ConsumerTag             string        `mapstructure:"consumer_tag" validate:"required"`
	HandlerTimeout          time.Duration `mapstructure:"handler_timeout" validate:"gt=0"`
	ReconnectInitialBackoff time.Duration `mapstructure:"reconnect_initial_backoff" validate:"gt=0"`
	ReconnectMaxBackoff     time.Duration `mapstructure:"reconnect_max_backoff" validate:"gtefield=ReconnectInitialBackoff"`
}

// Patterns splits the comma-separated routing pattern list, dropping blanks.
func (b BrokerConfig) Patterns() []string {
	parts := strings.Split(b.RoutingPatterns, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// RealtimeConfig contains the websocket gateway settings.
type RealtimeConfig struct {
	Path           string        `mapstructure:"path" validate:"required,startswith=/"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}
