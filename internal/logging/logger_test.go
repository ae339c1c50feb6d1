package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAppendsToLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := New(dir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("roster loaded", "employees", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "roster loaded") || !strings.Contains(line, "employees=3") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("file log should not contain colour codes: %q", line)
	}
}

func TestWriterLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filtering failed: %q", buf.String())
	}
}

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo}
	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		if got := levelFromEnv(); got != want {
			t.Fatalf("LOG_LEVEL=%q → %v, want %v", value, got, want)
		}
	}
}

func TestNilLoggerCloseIsSafe(t *testing.T) {
	var l *Logger
	if err := l.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
