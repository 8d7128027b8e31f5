package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}
	if config.Level != "INFO" {
		t.Errorf("Level = %q, want %q", config.Level, "INFO")
	}
	if !config.consoleOn() {
		t.Error("console disabled by default, want enabled")
	}
	if config.FileEnabled {
		t.Error("FileEnabled = true, want false")
	}
	if config.FilePath != "logs/simsvc.log" {
		t.Errorf("FilePath = %q, want %q", config.FilePath, "logs/simsvc.log")
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")
	content := `logging:
  level: DEBUG
  console_enabled: false
  console_format: json
  file_enabled: true
  file_path: sim.log
  file_max_size_mb: 20
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if config.Level != "DEBUG" {
		t.Errorf("Level = %q, want %q", config.Level, "DEBUG")
	}
	if config.consoleOn() {
		t.Error("console enabled, want disabled from YAML")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled || config.FilePath != "sim.log" {
		t.Errorf("file = (%v, %q), want (true, %q)", config.FileEnabled, config.FilePath, "sim.log")
	}
	if config.FileMaxSizeMB != 20 {
		t.Errorf("FileMaxSizeMB = %d, want 20", config.FileMaxSizeMB)
	}
	if config.FileMaxBackups != 5 {
		t.Errorf("FileMaxBackups = %d, want default 5", config.FileMaxBackups)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")
	if err := os.WriteFile(path, []byte("logging: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted malformed YAML")
	}
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q", config.FilePath, "/custom/path.log")
	}
}

func TestInitializeTextConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	if err := initialize(cfg, &buf); err != nil {
		t.Fatal(err)
	}

	Info("batch finished", "runs", 10)
	Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "batch finished") || !strings.Contains(out, "runs=10") {
		t.Errorf("output missing info record: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at INFO level: %s", out)
	}
}

func TestAlwaysBypassesLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "ERROR"
	cfg.ConsoleFormat = "json"
	if err := initialize(cfg, &buf); err != nil {
		t.Fatal(err)
	}

	Warning("dropped")
	Always("summary", "strategy", "balanced")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("warning written at ERROR level: %s", out)
	}
	if !strings.Contains(out, `"level":"ALWAYS"`) || !strings.Contains(out, `"strategy":"balanced"`) {
		t.Errorf("always record missing: %s", out)
	}
}

func TestInitializeFileAndConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.FileEnabled = true
	cfg.FilePath = filepath.Join(t.TempDir(), "sim.log")
	if err := initialize(cfg, &buf); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = Close() })

	Infof("seed %d", 7)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "seed 7") {
		t.Errorf("file log missing record: %s", data)
	}
	if !strings.Contains(buf.String(), "seed 7") {
		t.Errorf("console log missing record: %s", buf.String())
	}
}
