// Package logging builds the structured logger used across gaudium.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/1broseidon/gaudium/internal/config"
)

// Logger is the logger type taken by every package.
type Logger = logiface.Logger[logiface.Event]

// ParseLevel converts a config level string. Unknown strings give info.
func ParseLevel(s string) logiface.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logiface.LevelDebug
	case "info":
		return logiface.LevelInformational
	case "warn", "warning":
		return logiface.LevelWarning
	case "error":
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

// NewWriter returns a JSON logger writing to w.
func NewWriter(w io.Writer, level logiface.Level) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// New builds the logger described by cfg. Without a file it writes to
// stderr. The returned closer releases the log file and is never nil.
func New(cfg config.LoggingConfig) (*Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	if cfg.File == "" {
		return NewWriter(os.Stderr, level), nopCloser{}, nil
	}
	f, err := OpenRotatingFile(cfg.File, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWriter(f, level), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
