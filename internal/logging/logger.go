// Package logging provides structured logging configuration using log/slog.
//
// Loggers taken from a request context carry chi's request ID and any
// fields attached with ContextWith, so every entry of one request or one
// import can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup configures the global slog logger to write to stdout.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger writing to w. At debug level entries include the
// source location.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
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

type fieldsKey struct{}

// ContextWith returns a context whose loggers carry args in addition to
// any fields already attached.
//
//	ctx = logging.ContextWith(ctx, "import_id", id)
//	logging.FromContext(ctx).Debug("row rejected", "row", 5)
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(fieldsKey{}).([]any)
	fields := make([]any, 0, len(prev)+len(args))
	fields = append(fields, prev...)
	fields = append(fields, args...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

// FromContext returns the default logger enriched with the request ID set
// by chi's RequestID middleware and the fields attached with ContextWith.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if fields, ok := ctx.Value(fieldsKey{}).([]any); ok && len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return logger
}

// WithFields returns a context logger with additional structured fields,
// for one-off entries.
//
//	logging.WithFields(ctx, "material_id", id).Info("material deleted")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
