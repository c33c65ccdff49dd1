// ABOUTME: Tests for logger construction
// ABOUTME: Verifies level parsing and file output

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" INFO ", zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel},
		{"warn", zapcore.WarnLevel},
		{"", zapcore.WarnLevel},
		{"verbose", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.name); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "browser.log")

	log, err := New(Config{Level: "info", OutputPath: path, MaxSize: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Info("filters applied")
	log.Debug("below level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(data), "filters applied") {
		t.Errorf("Expected info message in log, got %q", string(data))
	}

	if strings.Contains(string(data), "below level") {
		t.Errorf("Debug message should be filtered at info level")
	}
}

func TestNewWithoutOutputIsNop(t *testing.T) {
	log, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Expected no-op logger when no output configured")
	}
}
