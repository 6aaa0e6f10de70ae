// Package logger provides slog construction and attribute helpers.
//
// Attribute helpers use the empty Attr pattern for nil safety, so call sites
// like log.Warn("request failed", logger.Error(err)) need no explicit nil
// checks. Empty attributes are dropped by slog handlers.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// New builds a text-handler logger writing to w at the named level.
// Unknown level names fall back to warn, which keeps a misconfigured
// client quiet rather than chatty.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags log records with the subsystem that produced them.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration creates an attribute for an elapsed time under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
