// Package logging writes structured logs to logs/quest.log in the data
// directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is a slog.Logger backed by an append-only log file.
type Logger struct {
	*slog.Logger
	file *os.File
}

// LogPath returns the log file path for a data directory.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "quest.log")
}

// New opens the log file under dataDir and returns a logger writing to it at
// the given minimum level. An empty dataDir disables logging.
func New(dataDir string, level slog.Level) (*Logger, error) {
	if dataDir == "" {
		return &Logger{Logger: Discard()}, nil
	}

	path := LogPath(dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(h), file: f}, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel parses a log level name. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
