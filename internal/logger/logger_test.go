package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	Reset()
	if Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected default logger to discard all levels")
	}
	// Must not panic before Init.
	Info("ignored", zap.Int("faces", 4))
	Sync()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "refine.log")
	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false

	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Reset()

	Named("far").Debug("refined level", zap.Int("depth", 1), zap.Int("faces", 24))
	Warn("sparse selection empty")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"refined level"`, `"logger":"far"`, `"faces":24`, `"level":"WARN"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log file to contain %s, got:\n%s", want, out)
		}
	}
}

func TestFileOutputRespectsLevel(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "refine.log")
	if err := InitWithFileConfig("error", FileConfig{Path: logFile, MaxSizeMB: 1}, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Reset()

	Info("dropped")
	Error("kept")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("expected info entry to be filtered")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("expected error entry to be written")
	}
}

func TestInitWithoutOutputsDisablesLogging(t *testing.T) {
	if err := InitWithFileConfig("debug", FileConfig{}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected logger without outputs to be disabled")
	}
}
