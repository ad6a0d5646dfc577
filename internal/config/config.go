// Package config loads taskmaster settings from an optional JSONC file.
//
// Precedence, lowest first: built-in defaults, the config file, then
// overrides applied by the caller (command-line flags).
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"taskmaster/internal/tasks"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendGorm   = "gorm"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigInvalid  = errors.New("invalid config")
	ErrConfigExists   = errors.New("config file already exists")
	ErrUnknownBackend = errors.New("unknown backend")
)

type Config struct {
	TaskBackend   string       `json:"task_backend"`
	UserBackend   string       `json:"user_backend"`
	Seed          bool         `json:"seed"`
	DefaultFilter tasks.Filter `json:"default_filter"`
}

// fileConfig mirrors Config with pointer fields so an explicit false or
// empty value in the file can be told apart from an omitted key.
type fileConfig struct {
	TaskBackend   *string `json:"task_backend"`
	UserBackend   *string `json:"user_backend"`
	Seed          *bool   `json:"seed"`
	DefaultFilter *string `json:"default_filter"`
}

func Default() Config {
	return Config{
		TaskBackend:   BackendMemory,
		UserBackend:   BackendMemory,
		Seed:          true,
		DefaultFilter: tasks.FilterAll,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/taskmaster/config.json, falling back
// to ~/.config/taskmaster/config.json. It returns "" when neither can be
// determined.
func DefaultPath(getenv func(string) string) string {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskmaster", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskmaster", "config.json")
}

// Load applies the file at path on top of the defaults. When mustExist is
// false a missing file yields the defaults and an empty source path.
func Load(path string, mustExist bool) (Config, string, error) {
	cfg := Default()
	if path == "" {
		if mustExist {
			return Config{}, "", fmt.Errorf("%w: empty path", ErrConfigNotFound)
		}
		return cfg, "", nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from --config
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, "", nil
		}
		if os.IsNotExist(err) {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, "", fmt.Errorf("read config %s: %w", path, err)
	}

	overlay, err := parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	cfg = merge(cfg, overlay)
	if err := Validate(cfg); err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	return cfg, path, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(standardized))
	decoder.DisallowUnknownFields()

	var parsed fileConfig
	if err := decoder.Decode(&parsed); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return parsed, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.TaskBackend != nil {
		base.TaskBackend = *overlay.TaskBackend
	}
	if overlay.UserBackend != nil {
		base.UserBackend = *overlay.UserBackend
	}
	if overlay.Seed != nil {
		base.Seed = *overlay.Seed
	}
	if overlay.DefaultFilter != nil {
		base.DefaultFilter = tasks.Filter(strings.ToLower(strings.TrimSpace(*overlay.DefaultFilter)))
	}
	return base
}

func Validate(cfg Config) error {
	switch cfg.TaskBackend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("%w: task_backend %q (supported: memory, sqlite)", ErrUnknownBackend, cfg.TaskBackend)
	}

	switch cfg.UserBackend {
	case BackendMemory, BackendGorm:
	default:
		return fmt.Errorf("%w: user_backend %q (supported: memory, gorm)", ErrUnknownBackend, cfg.UserBackend)
	}

	if !cfg.DefaultFilter.Valid() {
		return fmt.Errorf("%w: default_filter %q", tasks.ErrInvalidFilter, cfg.DefaultFilter)
	}
	return nil
}

// Format returns the config as indented JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}
	return string(data), nil
}

const defaultFileTemplate = `{
  // Task slice backend: "memory" or "sqlite" (in-memory SQLite).
  "task_backend": "memory",
  // User slice backend: "memory" or "gorm" (in-memory SQLite via gorm).
  "user_backend": "memory",
  // Load the demo task and users on start.
  "seed": true,
  // Initial task filter: "all", "low", "medium" or "high".
  "default_filter": "all",
}
`

// WriteDefault writes a commented default config file to path. An existing
// file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrConfigNotFound)
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader([]byte(defaultFileTemplate))); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
