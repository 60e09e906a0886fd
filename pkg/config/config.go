// Package config handles loading and saving tm configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/taskman/config.yaml
//   - State:  ~/.local/state/taskman/ (scheduler trace files)
//
// Tasks themselves are never persisted; only preferences live here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appDir = "taskman"

// Theme names accepted in config.yaml.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowHelp  bool `yaml:"show_help,omitempty"`  // Start with the full key help expanded
	CharLimit int  `yaml:"char_limit,omitempty"` // Max characters accepted by the input fields
	NoBlink   bool `yaml:"no_blink,omitempty"`   // Static cursor in the input fields
}

// SchedulerConfig tunes the transition work queue.
type SchedulerConfig struct {
	Workers   int    `yaml:"workers,omitempty"`    // Concurrent transition jobs (default 1)
	LogLevel  string `yaml:"log_level,omitempty"`  // none, error, warn, info, debug, trace
	TracePath string `yaml:"trace_path,omitempty"` // JSONL file receiving every scheduler event
}

// Config is the top-level configuration for tm.
type Config struct {
	Theme     string          `yaml:"theme,omitempty"`
	UI        UIConfig        `yaml:"ui,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: ThemeLight,
		UI: UIConfig{
			CharLimit: 256,
		},
		Scheduler: SchedulerConfig{
			Workers:  1,
			LogLevel: "warn",
		},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid theme %q (want %q or %q)", c.Theme, ThemeLight, ThemeDark)
	}
	if c.UI.CharLimit < 0 {
		return fmt.Errorf("invalid ui.char_limit %d", c.UI.CharLimit)
	}
	if c.Scheduler.Workers < 1 {
		return fmt.Errorf("invalid scheduler.workers %d (must be >= 1)", c.Scheduler.Workers)
	}
	return nil
}

// ConfigDir returns the XDG config directory for tm.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// StateDir returns the XDG state directory for tm.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appDir)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.Theme == "" {
		cfg.Theme = ThemeLight
	}
	if cfg.Scheduler.Workers == 0 {
		cfg.Scheduler.Workers = 1
	}
	cfg.Scheduler.TracePath = expandHome(cfg.Scheduler.TracePath)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
