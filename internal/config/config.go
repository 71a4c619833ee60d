// Package config loads tool configuration from a YAML file and resolves
// the per-user state directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	fileName  = "plan.yaml"
	stateDir  = ".plan"
	envPrefix = "PLAN"
)

// Log tunes the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the resolved tool configuration. Flags override fields at
// the CLI layer; everything here has a workable default.
type Config struct {
	Curriculum string `yaml:"curriculum"`
	DraftsDir  string `yaml:"drafts_dir"`
	Theme      string `yaml:"theme"`
	Journal    string `yaml:"journal"`
	Log        Log    `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Curriculum: "curriculum.md",
		DraftsDir:  "drafts",
		Theme:      "classic",
		Log:        Log{Level: "warn", Format: "text"},
	}
}

// Validate rejects values the rest of the tool would choke on.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Curriculum, validation.Required),
		validation.Field(&c.Theme, validation.In("classic", "neon", "mono")),
		validation.Field(&c.Log),
	)
}

func (l Log) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Load reads a config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds the effective configuration: $PLAN_CONFIG, then
// ./plan.yaml, then ~/.plan/plan.yaml, then defaults.
func Discover() (Config, error) {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return Load(p)
	}

	cfg, err := Load(fileName)
	if err == nil {
		return cfg, nil
	}
	if !IsNotExist(err) {
		return Config{}, err
	}

	if dir, err := StateDir(); err == nil {
		cfg, err := Load(filepath.Join(dir, fileName))
		if err == nil {
			return cfg, nil
		}
		if !IsNotExist(err) {
			return Config{}, err
		}
	}

	return Default(), nil
}

// StateDir returns ~/.plan without creating it.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, stateDir), nil
}

// EnsureStateDir creates ~/.plan (0700) if needed and returns it.
func EnsureStateDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return dir, nil
}

// JournalPath resolves the sqlite journal location, defaulting to
// ~/.plan/journal.db when the config does not name one.
func (c Config) JournalPath() (string, error) {
	if c.Journal != "" {
		return c.Journal, nil
	}
	dir, err := EnsureStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

// IsNotExist reports whether err came from a missing config file, so
// callers can fall back to defaults silently.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
