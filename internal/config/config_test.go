package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil config for missing file")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil config for empty path")
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `window:
  title: Oratio Dev
  width: 900
  height: 600
log:
  level: debug
  json: true
resources: /opt/oratio/resources
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WindowTitle() != "Oratio Dev" {
		t.Fatalf("title = %s", cfg.WindowTitle())
	}
	width, height := cfg.WindowSize()
	if width != 900 || height != 600 {
		t.Fatalf("size = %gx%g", width, height)
	}
	if !cfg.LogJSON() {
		t.Fatalf("expected json logging")
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.LogLevel())
	}
	if cfg.ResourcesDir() != "/opt/oratio/resources" {
		t.Fatalf("resources = %s", cfg.ResourcesDir())
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("window: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConfig_NilDefaults(t *testing.T) {
	var cfg *Config
	if cfg.WindowTitle() != "OratioViva" {
		t.Fatalf("title = %s", cfg.WindowTitle())
	}
	width, height := cfg.WindowSize()
	if width != 1200 || height != 800 {
		t.Fatalf("size = %gx%g", width, height)
	}
	if cfg.LogJSON() {
		t.Fatalf("expected text logging by default")
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Fatalf("level = %v", cfg.LogLevel())
	}
	if cfg.ResourcesDir() != "" {
		t.Fatalf("resources = %s", cfg.ResourcesDir())
	}
}

func TestDefaultConfigDir_EnvOverride(t *testing.T) {
	t.Setenv("ORATIO_HOME", "/tmp/oratio-home")
	if got := DefaultConfigDir(); got != "/tmp/oratio-home" {
		t.Fatalf("dir = %s", got)
	}
	if want := filepath.Join("/tmp/oratio-home", "config.yaml"); DefaultConfigPath() != want {
		t.Fatalf("path = %s, want %s", DefaultConfigPath(), want)
	}
}
