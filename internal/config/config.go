package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models the optional shell configuration file. Backend bind
// parameters are not configured here; those stay environment-driven.
type Config struct {
	Window    Window `yaml:"window"`
	Log       Log    `yaml:"log"`
	Resources string `yaml:"resources"`
}

// Window controls the desktop shell window.
type Window struct {
	Title  string  `yaml:"title"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Log controls shell logging output.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load decodes the config file. Missing files return (nil, nil); every
// accessor below tolerates a nil receiver, so shells can use the result of
// Load directly.
func Load(path string) (*Config, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	expanded, err := expandPath(trimmed)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// WindowTitle returns the configured window title or the product default.
func (c *Config) WindowTitle() string {
	if c == nil || strings.TrimSpace(c.Window.Title) == "" {
		return "OratioViva"
	}
	return c.Window.Title
}

// WindowSize returns the configured window size, defaulting to 1200x800.
func (c *Config) WindowSize() (float32, float32) {
	width, height := float32(1200), float32(800)
	if c == nil {
		return width, height
	}
	if c.Window.Width > 0 {
		width = c.Window.Width
	}
	if c.Window.Height > 0 {
		height = c.Window.Height
	}
	return width, height
}

// LogJSON reports whether logs should be emitted as JSON.
func (c *Config) LogJSON() bool {
	return c != nil && c.Log.JSON
}

// LogLevel maps the configured level name onto slog, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
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

// ResourcesDir returns the bundled-resources override, expanded, or empty
// when unset.
func (c *Config) ResourcesDir() string {
	if c == nil || strings.TrimSpace(c.Resources) == "" {
		return ""
	}
	expanded, err := expandPath(strings.TrimSpace(c.Resources))
	if err != nil {
		return ""
	}
	return expanded
}

func expandPath(path string) (string, error) {
	switch {
	case strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	case path == "~":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return home, nil
	case filepath.IsAbs(path):
		return path, nil
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(cwd, path), nil
	}
}
