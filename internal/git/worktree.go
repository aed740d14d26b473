package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/storage/filesystem"
	xworktree "github.com/go-git/go-git/v6/x/plumbing/worktree"
)

// Entry describes one linked worktree recorded in the repository's
// registry (.git/worktrees/<name>/).
type Entry struct {
	// Name is the registry name, the directory under .git/worktrees/.
	Name string

	// Path is the absolute path to the worktree's working directory.
	Path string

	// Locked reports whether the registry carries an advisory lock marker
	// for this worktree. The lock does not prevent reads.
	Locked bool
}

// WorktreeSet manages the linked worktrees of a repository. It wraps the
// experimental x/plumbing/worktree package and reads registry metadata
// (worktree paths, lock markers) directly from the .git storage filesystem.
type WorktreeSet struct {
	repo   *gogit.Repository
	wt     *xworktree.Worktree
	dotgit billy.Filesystem
}

func newWorktreeSet(repo *gogit.Repository) (*WorktreeSet, error) {
	wt, err := xworktree.New(repo.Storer)
	if err != nil {
		return nil, fmt.Errorf("creating worktree set: %w", err)
	}
	fsStorer, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return nil, errors.New("repository storage does not expose a filesystem")
	}
	return &WorktreeSet{repo: repo, wt: wt, dotgit: fsStorer.Filesystem()}, nil
}

// Names returns the registry names of all linked worktrees.
func (w *WorktreeSet) Names() ([]string, error) {
	names, err := w.wt.List()
	if err != nil {
		return nil, fmt.Errorf("listing worktrees: %w", err)
	}
	return names, nil
}

// Entries enumerates the worktree registry, resolving each entry's working
// directory and lock state. Entries whose gitdir record cannot be read are
// skipped; the registry enumeration itself failing is an error.
func (w *WorktreeSet) Entries() ([]Entry, error) {
	names, err := w.Names()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		path, err := w.entryPath(name)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:   name,
			Path:   path,
			Locked: w.entryLocked(name),
		})
	}
	return entries, nil
}

// entryPath reads .git/worktrees/<name>/gitdir, which records the path of
// the worktree's .git file; its parent directory is the working directory.
func (w *WorktreeSet) entryPath(name string) (string, error) {
	raw, err := util.ReadFile(w.dotgit, filepath.Join("worktrees", name, "gitdir"))
	if err != nil {
		return "", fmt.Errorf("reading gitdir for worktree %q: %w", name, err)
	}
	gitdir := strings.TrimSpace(string(raw))
	if gitdir == "" {
		return "", fmt.Errorf("empty gitdir record for worktree %q", name)
	}
	return filepath.Dir(gitdir), nil
}

// entryLocked reports whether the registry carries a lock marker for name.
// A stat failure other than "not exist" is read as locked.
func (w *WorktreeSet) entryLocked(name string) bool {
	_, err := w.dotgit.Stat(filepath.Join("worktrees", name, "locked"))
	if err == nil {
		return true
	}
	return !errors.Is(err, os.ErrNotExist) && !os.IsNotExist(err)
}

// Open opens a linked worktree's working directory as a full repository.
func (w *WorktreeSet) Open(path string) (*gogit.Repository, error) {
	repo, err := w.wt.Open(osfs.New(path))
	if err != nil {
		return nil, fmt.Errorf("opening worktree at %s: %w", path, err)
	}
	return repo, nil
}

// addDetached registers a linked worktree with a detached HEAD at commit.
// Detached mode avoids go-git's default of creating a branch named after
// the worktree name, which matters when the branch name contains slashes.
func (w *WorktreeSet) addDetached(path, name string, commit plumbing.Hash) error {
	opts := []xworktree.Option{xworktree.WithDetachedHead()}
	if !commit.IsZero() {
		opts = append(opts, xworktree.WithCommit(commit))
	}
	if err := w.wt.Add(osfs.New(path), name, opts...); err != nil {
		return fmt.Errorf("adding worktree %q at %s: %w", name, path, err)
	}
	return nil
}

// AddAtBranch registers a linked worktree named name at path, checking out
// the existing branch ref. The branch MUST exist; callers that need a new
// branch create the ref first.
func (w *WorktreeSet) AddAtBranch(path, name string, branch plumbing.ReferenceName) error {
	ref, err := w.repo.Reference(branch, true)
	if err != nil {
		return fmt.Errorf("resolving branch %s: %w", branch.Short(), err)
	}

	if err := w.addDetached(path, name, ref.Hash()); err != nil {
		return err
	}

	wtRepo, err := w.Open(path)
	if err != nil {
		_ = w.Remove(name)
		return fmt.Errorf("opening newly created worktree: %w", err)
	}
	wt, err := wtRepo.Worktree()
	if err != nil {
		_ = w.Remove(name)
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: branch}); err != nil {
		_ = w.Remove(name)
		return fmt.Errorf("checking out branch %s: %w", branch.Short(), err)
	}
	return nil
}

// Remove deletes the worktree's registry record. It does NOT touch the
// working directory on disk; use Prune for the full removal.
func (w *WorktreeSet) Remove(name string) error {
	if err := w.wt.Remove(name); err != nil {
		return fmt.Errorf("removing worktree %q: %w", name, err)
	}
	return nil
}

// Prune removes the worktree's registry record and deletes its working
// directory. Valid (non-corrupt) worktrees are pruned, not refused.
func (w *WorktreeSet) Prune(e Entry) error {
	if err := w.Remove(e.Name); err != nil {
		return err
	}
	if e.Path != "" {
		if err := os.RemoveAll(e.Path); err != nil {
			return fmt.Errorf("deleting worktree directory %s: %w", e.Path, err)
		}
	}
	return nil
}
