package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Loader reads worktrunk settings from disk and the environment.
type Loader struct {
	path  string
	viper *viper.Viper
}

// NewLoader creates a loader for the default settings location.
func NewLoader() (*Loader, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, fmt.Errorf("resolving settings path: %w", err)
	}
	return NewLoaderAt(path), nil
}

// NewLoaderAt creates a loader bound to an explicit settings file path.
func NewLoaderAt(path string) *Loader {
	return &Loader{path: path, viper: newViper()}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the settings file, applies defaults and environment overrides,
// and returns the merged result. A missing file yields defaults; a broken
// file is an error.
func (l *Loader) Load() (*Settings, error) {
	l.viper.SetConfigFile(l.path)
	l.viper.SetConfigType("yaml")

	defaults := DefaultSettings()
	l.viper.SetDefault("worktree.base_dir", defaults.Worktree.BaseDir)
	l.viper.SetDefault("worktree.path_template", defaults.Worktree.PathTemplate)
	l.viper.SetDefault("clone.progress_interval", defaults.Clone.ProgressInterval)
	l.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	l.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	l.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var settings Settings
	if err := l.viper.Unmarshal(&settings, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return &settings, nil
}

// Path returns the settings file path this loader reads from.
func (l *Loader) Path() string {
	return l.path
}

// Watch registers onChange with the underlying file watcher and starts
// watching the settings file. Load must have been called first.
func (l *Loader) Watch(onChange func(fsnotify.Event)) error {
	if l.viper.ConfigFileUsed() == "" {
		return fmt.Errorf("watch requires a loaded settings file")
	}
	if onChange != nil {
		l.viper.OnConfigChange(onChange)
	}
	l.viper.WatchConfig()
	return nil
}
