// Package observability provides structured logging, metrics collection and
// correlation ids for the todos client.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const serviceName = "todos"

// LogConfig configures NewLogger.
type LogConfig struct {
	// Level is debug, info, warn or error; anything else means info.
	Level string
	// Format is FormatText or FormatJSON.
	Format string
	// Output defaults to os.Stderr.
	Output    io.Writer
	AddSource bool
	// Service, when set, is attached to every record.
	Service string
}

// NewLogger builds a slog logger. Records logged with a context carry its
// correlation id.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, FormatJSON) {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	if cfg.Service != "" {
		h = h.WithAttrs([]slog.Attr{slog.String("service", cfg.Service)})
	}
	return slog.New(correlationHandler{next: h})
}

// LoggerFor builds the process logger from the configured level and format.
// Production defaults to JSON on stdout with source locations.
func LoggerFor(level, format string, production bool) *slog.Logger {
	cfg := LogConfig{
		Level:   "info",
		Format:  FormatText,
		Output:  os.Stderr,
		Service: serviceName,
	}
	if production {
		cfg.Format = FormatJSON
		cfg.Output = os.Stdout
		cfg.AddSource = true
	}
	if level != "" {
		cfg.Level = level
	}
	if format != "" {
		cfg.Format = format
	}
	return NewLogger(cfg)
}

// LoggerFromEnv is the logger used before the configuration is loaded. It
// reads TODOS_LOG_LEVEL, TODOS_LOG_FORMAT and TODOS_ENV.
func LoggerFromEnv() *slog.Logger {
	return LoggerFor(
		os.Getenv("TODOS_LOG_LEVEL"),
		os.Getenv("TODOS_LOG_FORMAT"),
		os.Getenv("TODOS_ENV") == "production",
	)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
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

// correlationHandler adds the context's correlation id to each record.
type correlationHandler struct {
	next slog.Handler
}

func (h correlationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h correlationHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	return h.next.Handle(ctx, r)
}

func (h correlationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return correlationHandler{next: h.next.WithAttrs(attrs)}
}

func (h correlationHandler) WithGroup(name string) slog.Handler {
	return correlationHandler{next: h.next.WithGroup(name)}
}
