// Package logging configures structured logging with log/slog and threads
// chi request IDs into request-scoped loggers, so every entry for one parse
// request can be correlated.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup installs the global slog logger. Level is one of debug, info, warn,
// error; format is text or json. Use json in production so parse logs feed
// log aggregation directly.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// FromContext returns a logger carrying the chi request ID when the context
// has one.
//
// Usage:
//
//	logger := logging.FromContext(r.Context())
//	logger.Info("parse completed", "schema", result.Meta.SourceSchema)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields returns a request-scoped logger with extra fields attached,
// for multi-step work that should log consistent context throughout.
//
// Usage:
//
//	parseLog := logging.WithFields(ctx, "file", header.Filename)
//	parseLog.Info("decode started")
//	parseLog.Info("decode finished", "rows", len(rows))
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
