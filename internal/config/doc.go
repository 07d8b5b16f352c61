// Package config loads the service settings (HTTP server, Postgres, broker
// topology, realtime gateway and token verification) from an optional
// config.yaml and NOTIFICATIONS_-prefixed environment variables, and
// validates them before any component starts.
package config
