package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// WriteSettings persists settings to the default location, creating the
// config directory if needed. The write is atomic and guarded by an
// advisory file lock so concurrent writers cannot interleave.
func WriteSettings(settings *Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return fmt.Errorf("resolving settings path: %w", err)
	}
	return WriteSettingsTo(path, settings)
}

// WriteSettingsTo persists settings to an explicit path.
func WriteSettingsTo(path string, settings *Settings) error {
	encoded, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	return withFileLock(path, func() error {
		return atomicWriteFile(path, encoded, 0o644)
	})
}

// WriteDefaultSettings writes the built-in defaults to path unless the file
// already exists. Returns true when a new file was created.
func WriteDefaultSettings(path string) (bool, error) {
	created := false
	err := withFileLock(path, func() error {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !isNotExist(err) {
			return fmt.Errorf("checking settings file %s: %w", path, err)
		}

		encoded, err := yaml.Marshal(DefaultSettings())
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		if err := atomicWriteFile(path, encoded, 0o644); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// atomicWriteFile writes data via temp-file + fsync + rename so readers
// never observe a partial file. The temp file lives in the target's parent
// directory to keep the rename on one filesystem.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".worktrunk-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("setting permissions on temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	success = true
	return nil
}

// withFileLock acquires an advisory lock on path+".lock" before running fn,
// giving cross-process mutual exclusion for settings writes.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory for %s: %w", path, err)
	}

	fl := flock.New(path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring file lock for %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring file lock for %s", path)
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
