// Package logging builds the process logger and decorates it with the
// batch and recipient carried in a context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/example/certbatch/internal/ctxutil"
)

// Options configures the process logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// FromContext returns logger with batch_id and recipient attributes taken
// from ctx, when present.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := ctxutil.BatchIDFromContext(ctx); id != "" {
		logger = logger.With("batch_id", id)
	}
	if email := ctxutil.RecipientFromContext(ctx); email != "" {
		logger = logger.With("recipient", email)
	}
	return logger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
