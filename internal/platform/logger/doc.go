// Package logger configures the process-wide slog JSON logger and carries
// request-scoped loggers, tagged with trace and user ids, through
// context.Context.
package logger
