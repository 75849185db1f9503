// Package logging wraps log/slog with the field names used across readmap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with readmap-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger that writes human-readable lines to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON creates a Logger that writes one JSON object per line to w.
func NewJSON(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop creates a Logger that discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// ParseLevel maps debug|info|warn|error to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// WithComponent tags every record with component=name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

// WithWorker tags every record with the worker number.
func (l *Logger) WithWorker(id int) *Logger {
	return &Logger{Logger: l.Logger.With("worker", id)}
}

// LogIndexBuilt logs the outcome of an index build or load.
func (l *Logger) LogIndexBuilt(ctx context.Context, source string, targets, minimizers int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"source", source,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "index ready",
		"source", source,
		"targets", targets,
		"minimizers", minimizers,
		"elapsed", elapsed,
	)
}

// LogRun logs a finished pipeline run.
func (l *Logger) LogRun(ctx context.Context, records, failed, mappings int, elapsed time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "mapping run failed",
			"records", records,
			"failed", failed,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "mapping run completed with failures",
			"records", records,
			"failed", failed,
			"mappings", mappings,
			"elapsed", elapsed,
		)
	default:
		l.InfoContext(ctx, "mapping run completed",
			"records", records,
			"mappings", mappings,
			"elapsed", elapsed,
		)
	}
}
