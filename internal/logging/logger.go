// Package logging configures slog with tint handlers: coloured output on
// stderr for CLI commands, plain lines in .boxplanner/logs for the TUI (which
// owns the terminal while it runs).
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const logFileName = "boxplanner.log"

// Setup configures coloured stderr logging at the LOG_LEVEL level.
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures coloured stderr logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// Logger appends to .boxplanner/logs/boxplanner.log so failures can be
// inspected after the TUI exits.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates (or reuses) the log file inside logDir.
func New(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{Logger: NewWriterLogger(f, levelFromEnv()), file: f}, nil
}

// NewWriterLogger returns an uncoloured logger writing to w.
func NewWriterLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return NewWriterLogger(io.Discard, slog.LevelError)
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
