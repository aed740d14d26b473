// Package factory wires the real dependency implementations into a
// cmdutil.Factory. Tests should NOT import this package — construct
// &cmdutil.Factory{} directly with test doubles.
package factory

import (
	"sync"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/config"
	"github.com/worktrunk/worktrunk/internal/iostreams"
)

// New creates a fully-wired Factory with lazy-initialized dependency
// closures. Called exactly once at the CLI entry point.
func New(version, commit string) *cmdutil.Factory {
	f := &cmdutil.Factory{
		Version:   version,
		Commit:    commit,
		IOStreams: iostreams.System(),
	}

	var (
		loaderOnce sync.Once
		loader     *config.Loader
		loaderErr  error
	)
	f.SettingsLoader = func() (*config.Loader, error) {
		loaderOnce.Do(func() {
			loader, loaderErr = config.NewLoader()
		})
		return loader, loaderErr
	}

	var (
		settingsOnce sync.Once
		settings     *config.Settings
		settingsErr  error
	)
	f.Settings = func() (*config.Settings, error) {
		settingsOnce.Do(func() {
			l, err := f.SettingsLoader()
			if err != nil {
				settingsErr = err
				return
			}
			settings, settingsErr = l.Load()
		})
		return settings, settingsErr
	}

	return f
}
