package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-calculator/internal/config"
)

func TestNewLoggerWithoutOutputIsNop(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "debug"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Fatal("expected a no-op logger")
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.log")

	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", File: path}, "stderr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Fatal("info entry should be filtered at warn level")
	}
	if !strings.Contains(string(data), `"msg":"kept"`) {
		t.Fatalf("expected JSON warn entry, got %q", data)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, err := NewLogger(config.LoggingConfig{Level: "loud"}, "stderr"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
