package cmdutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const repoLockFile = "worktrunk.lock"

// WithRepoLock serializes conflicting worktree mutations for one repository
// across processes. It takes an advisory lock inside the repository's .git
// directory, runs fn, and releases the lock. When the .git directory does
// not exist the callee will fail with a proper diagnostic, so fn runs
// unlocked rather than masking that error with a lock failure.
func WithRepoLock(ctx context.Context, repoRoot string, fn func() error) error {
	gitDir := filepath.Join(repoRoot, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return fn()
	}

	fl := flock.New(filepath.Join(gitDir, repoLockFile))

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	locked, err := fl.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring repository lock for %s: %w", repoRoot, err)
	}
	if !locked {
		return fmt.Errorf("timed out waiting for repository lock on %s", repoRoot)
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}
