// Package logger builds the slog logger used by the demo program: text or
// JSON records, written to stderr or to a size-rotated file.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, format and destination.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is text or json.
	Format string
	// File is a log file path; empty or "stderr" logs to stderr.
	File string
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
}

// New returns the logger and a closer for its output.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	var w io.WriteCloser = nopCloser{os.Stderr}
	switch strings.ToLower(cfg.File) {
	case "", "stderr":
	case "stdout":
		w = nopCloser{os.Stdout}
	default:
		w = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     28,
		}
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		_ = w.Close()
		return nil, nil, fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Format)
	}

	return slog.New(h), w, nil
}

// ParseLevel converts a level string to slog.Level, info if unknown.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
