package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSetupLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()

	logger := SetupLogger(dir, slog.LevelInfo)
	logger.Info("crawl started", "prefixes", 80)

	logPath := filepath.Join(dir, fmt.Sprintf("pmda-%s.log", time.Now().Format("2006-01-02")))
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"crawl started"`) {
		t.Errorf("log file missing record: %s", data)
	}
	if !strings.Contains(string(data), `"prefixes":80`) {
		t.Errorf("log file missing attributes: %s", data)
	}
}

func TestSetupLoggerFallsBackWithoutDirectory(t *testing.T) {
	// A file in place of the directory makes MkdirAll fail.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "occupied")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := SetupLogger(blocked, slog.LevelInfo)
	if logger == nil {
		t.Fatal("expected console-only fallback logger")
	}
	logger.Info("still works")
}

func TestPackageLevelFunctionsWithoutInit(t *testing.T) {
	saved := DefaultLoggingService
	DefaultLoggingService = nil
	defer func() { DefaultLoggingService = saved }()

	// Must not panic before InitLogger has run.
	Info("message")
	Warn("message")
	Error("message")
	Debug("message")
}
