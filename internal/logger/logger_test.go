package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"prassi/internal/config"
)

func TestSetup_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logger := Setup(&config.Config{LogFormat: "text", LogLevel: "info"})
	if logger == nil {
		t.Fatal("Expected logger, got nil")
	}
	if slog.Default() != logger {
		t.Error("Logger was not set as default")
	}
}

func TestSetupWriter_JSONFormat(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := SetupWriter(&config.Config{LogFormat: "JSON", LogLevel: "debug"}, &buf)
	logger.Debug("digest requested", "path", "main.go")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "digest requested" || entry["path"] != "main.go" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetupWriter_TextFormatRespectsLevel(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := SetupWriter(&config.Config{LogFormat: "", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("context window exceeded", "mode", "origin")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "mode=origin") {
		t.Errorf("expected text-formatted warn entry, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
