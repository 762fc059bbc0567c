// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls logger construction. Zero values give info-level text on stderr.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
	Debug  bool
}

// New returns a logger writing to opt.Writer in the requested format.
func New(opt Options) (*slog.Logger, error) {
	w := opt.Writer
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(opt.Level)
	if opt.Debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(opt.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", opt.Format)
	}
	return slog.New(h), nil
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
