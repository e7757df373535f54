// Package logging builds the application's slog loggers and carries them
// through request contexts.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"polysum/internal/handler/http/requestid"
)

// ParseLevel maps LOG_LEVEL values to slog levels.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a JSON logger on stdout.
// The level comes from LOG_LEVEL (debug, info, warn, error; default info).
// LOG_FORMAT=text switches to the human-readable handler.
func NewLogger() *slog.Logger {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		return NewTextLogger()
	}
	return newLogger(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")), false)
}

// NewTextLogger creates a logger with text output for local development
// and the CLI.
func NewTextLogger() *slog.Logger {
	return newLogger(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")), true)
}

func newLogger(w io.Writer, level slog.Level, text bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithRequestID returns a logger carrying the request ID from ctx, if any.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}

// WithFields returns a logger with additional key-value fields.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
