// Package config loads game configuration from a YAML file, falling back
// to sensible defaults when the file is absent.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all user-tunable settings.
type Config struct {
	// SaveDir is where player profiles are written.
	SaveDir string `yaml:"save_dir"`

	// ContentDir holds the Lua content files.
	ContentDir string `yaml:"content_dir"`

	// Seed overrides the world seed. 0 means pick one from the clock.
	Seed int64 `yaml:"seed"`

	// Plain disables the TUI and uses the line-based interface.
	Plain bool `yaml:"plain"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds log file settings. Logs go to a file only; the terminal
// belongs to the game.
type LogConfig struct {
	// Path of the log file. Empty disables logging.
	Path string `yaml:"path"`

	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `yaml:"level"`

	// MaxSizeMB is the rotation threshold.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `yaml:"max_backups"`
}

// DefaultConfig returns a Config with working defaults rooted in the
// user's home directory.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".soulrift")
	return &Config{
		SaveDir:    filepath.Join(base, "saves"),
		ContentDir: "content",
		Log: LogConfig{
			Path:       filepath.Join(base, "soulrift.log"),
			Level:      "INFO",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}
