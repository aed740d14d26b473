// Package config loads and persists worktrunk settings.
//
// Settings live in a single YAML file (default
// $XDG_CONFIG_HOME/worktrunk/settings.yaml), overridable key-by-key with
// WORKTRUNK_* environment variables. Missing file means defaults; a
// malformed file is an error, not a silent fallback.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// SettingsFileName is the settings file name inside the config dir.
	SettingsFileName = "settings.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "WORKTRUNK"

	// envConfigDir overrides the config directory location wholesale.
	envConfigDir = "WORKTRUNK_CONFIG_DIR"
)

// Settings is the root of the worktrunk configuration.
type Settings struct {
	Worktree WorktreeSettings `mapstructure:"worktree" yaml:"worktree"`
	Clone    CloneSettings    `mapstructure:"clone" yaml:"clone"`
	Logging  LoggingSettings  `mapstructure:"logging" yaml:"logging"`
}

// WorktreeSettings configures worktree placement.
type WorktreeSettings struct {
	// BaseDir is the worktree base directory. A relative value is resolved
	// against the repository root at call time.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`

	// PathTemplate computes the worktree path from {repoRoot},
	// {worktreeBaseDir}, and {branch}.
	PathTemplate string `mapstructure:"path_template" yaml:"path_template"`
}

// CloneSettings configures the clone pipeline.
type CloneSettings struct {
	// ProgressInterval is the minimum spacing between time-gated progress
	// emissions.
	ProgressInterval time.Duration `mapstructure:"progress_interval" yaml:"progress_interval"`
}

// LoggingSettings configures file logging rotation.
type LoggingSettings struct {
	FileEnabled *bool `mapstructure:"file_enabled" yaml:"file_enabled,omitempty"`
	MaxSizeMB   int   `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays  int   `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups  int   `mapstructure:"max_backups" yaml:"max_backups"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Worktree: WorktreeSettings{
			BaseDir:      ".worktrees",
			PathTemplate: "{worktreeBaseDir}/{branch}",
		},
		Clone: CloneSettings{
			ProgressInterval: 100 * time.Millisecond,
		},
		Logging: LoggingSettings{
			MaxSizeMB:  50,
			MaxAgeDays: 7,
			MaxBackups: 3,
		},
	}
}

// ConfigDir returns the worktrunk configuration directory, honoring the
// WORKTRUNK_CONFIG_DIR override.
func ConfigDir() (string, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "worktrunk"), nil
}

// SettingsPath returns the full path of the settings file.
func SettingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// LogsDir returns the directory for rotated log files.
func LogsDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "worktrunk", "logs"), nil
}
