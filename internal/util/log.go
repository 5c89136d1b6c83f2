// Package util provides shared helpers; currently logger construction.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NewFileLogger creates a structured logger writing to the given file,
// or to a date-stamped file under the OS temp dir when path is empty.
// The terminal belongs to the TUI, so logs never go to stdout/stderr.
// Supported levels: "debug", "info", "warn", "error"; anything else
// falls back to "info". The returned close func flushes the file.
func NewFileLogger(level, path string) (*slog.Logger, func() error, error) {
	var slevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slevel = slog.LevelDebug
	case "info":
		slevel = slog.LevelInfo
	case "warn":
		slevel = slog.LevelWarn
	case "error":
		slevel = slog.LevelError
	default:
		slevel = slog.LevelInfo
	}

	if path == "" {
		path = filepath.Join(os.TempDir(),
			fmt.Sprintf("tickerdeck-%s.log", time.Now().Format("2006-01-02")))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slevel})
	return slog.New(handler), f.Close, nil
}

// SetDefault configures the provided logger as the default slog logger.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
