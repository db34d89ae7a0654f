// Package config loads fmgr settings from a YAML file and FMGR_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FMGR"

// ConflictPolicy selects how failures are resolved when no one is asked.
type ConflictPolicy string

// Conflict policies.
const (
	PolicyPrompt    ConflictPolicy = "prompt"
	PolicyOverwrite ConflictPolicy = "overwrite"
	PolicySkip      ConflictPolicy = "skip"
	PolicyAbort     ConflictPolicy = "abort"
)

// ParsePolicy validates s as a ConflictPolicy.
func ParsePolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(s); p {
	case PolicyPrompt, PolicyOverwrite, PolicySkip, PolicyAbort:
		return p, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q (want prompt, overwrite, skip or abort)", s)
}

// MaxChunkSize bounds the manual copy buffer.
const MaxChunkSize = 64 << 20

// Config holds all fmgr configuration.
type Config struct {
	OnConflict      ConflictPolicy `yaml:"on_conflict" envconfig:"ON_CONFLICT"`
	ChunkSize       int            `yaml:"chunk_size" envconfig:"CHUNK_SIZE"`
	LockPath        string         `yaml:"lock_path" envconfig:"LOCK_PATH"`
	ClipboardPath   string         `yaml:"clipboard_path" envconfig:"CLIPBOARD_PATH"`
	JournalPath     string         `yaml:"journal_path" envconfig:"JOURNAL_PATH"`
	MetricsTextfile string         `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
	Logging         LogConfig      `yaml:"logging" envconfig:"LOGGING"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// Load reads the config file at path, or the default location when path is
// empty, then applies environment overrides and defaults. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	var cfg Config
	cfg.fillDefaults()
	return &cfg
}

func (c *Config) fillDefaults() {
	state := StateDir()
	if c.OnConflict == "" {
		c.OnConflict = PolicyPrompt
	}
	if c.LockPath == "" {
		c.LockPath = filepath.Join(state, "fmgr.lock")
	}
	if c.ClipboardPath == "" {
		c.ClipboardPath = filepath.Join(state, "clipboard.yaml")
	}
	if c.JournalPath == "" {
		c.JournalPath = filepath.Join(state, "journal.db")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "error"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := ParsePolicy(string(c.OnConflict)); err != nil {
		return fmt.Errorf("on_conflict: %w", err)
	}
	if c.ChunkSize < 0 || c.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunk_size: %d out of range 0..%d", c.ChunkSize, MaxChunkSize)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/fmgr/config.yaml, or ~/.config/fmgr/config.yaml.
// It is empty when no home directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fmgr", "config.yaml")
}

// StateDir is where fmgr keeps its lock, clipboard and journal:
// $XDG_STATE_HOME/fmgr, or ~/.local/state/fmgr.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "fmgr")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "fmgr")
	}
	return filepath.Join(home, ".local", "state", "fmgr")
}
