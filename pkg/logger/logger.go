// Package logger configures structured logging for CareerForge services.
// It is a thin layer over log/slog: every component receives a *slog.Logger
// and this package only decides handler, format and level.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Format defines the log output format.
type Format string

const (
	// FormatJSON emits one JSON object per line. Use in production,
	// log aggregators expect it.
	FormatJSON Format = "json"
	// FormatText emits human-readable key=value lines. Use in development.
	FormatText Format = "text"
)

// Options configures the logger.
type Options struct {
	Level     string // debug, info, warn, error
	Format    Format // json or text
	AddSource bool   // include file:line of the call site

	// Service and Version are attached to every record.
	Service string
	Version string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Level:  "info",
		Format: FormatJSON,
	}
}

// ParseLevel converts a level string into a slog.Level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a *slog.Logger from the given options.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	switch opts.Format {
	case FormatText:
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}

	log := slog.New(handler)

	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}

	return log
}

// Setup builds a logger from the options and installs it as the slog default,
// so that libraries falling back to slog.Default() stay consistent.
func Setup(opts Options) *slog.Logger {
	log := New(opts)
	slog.SetDefault(log)
	return log
}

// Common attribute helpers. Keys are fixed so dashboards can rely on them.

// UserID annotates a record with the user identifier.
func UserID(id string) slog.Attr { return slog.String("user_id", id) }

// BadgeKey annotates a record with a badge key.
func BadgeKey(key string) slog.Attr { return slog.String("badge_key", key) }

// Score annotates a record with a score value.
func Score(value float64) slog.Attr { return slog.Float64("score", value) }

// Component annotates a record with the emitting component name.
func Component(name string) slog.Attr { return slog.String("component", name) }

// Err annotates a record with an error message.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}
