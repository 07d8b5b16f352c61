// Package logger sets up the process-wide log/slog JSON logger and carries
// request- or message-scoped loggers through context.Context.
package logger
