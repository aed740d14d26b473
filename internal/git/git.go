// Package git is a thin facade over go-git for repository and linked
// worktree operations.
//
// This is a Tier 1 (Leaf) package in the worktrunk architecture:
//   - It imports ONLY stdlib, go-git, and go-billy packages
//   - It does NOT import any internal packages
//   - Configuration is passed as parameters, not via config package imports
//
// Repository is the top-level handle; Worktrees() exposes the linked
// worktree registry. Every handle is scoped to a single operation; the
// orchestration layer re-opens the repository on each call.
package git

import (
	"errors"
	"fmt"
	"sync"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

var (
	// ErrNotRepository is returned when the path cannot be opened as a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrBranchNotFound is returned when a branch ref does not exist.
	ErrBranchNotFound = errors.New("branch not found")
)

// Repository wraps a go-git repository rooted at a known directory.
type Repository struct {
	repo *gogit.Repository
	root string

	worktrees    *WorktreeSet
	worktreeErr  error
	worktreeOnce sync.Once
}

// Open opens the repository rooted exactly at path. Unlike OpenFrom it does
// not walk up the directory tree; a path one level below the repository root
// is not a repository.
//
// Returns ErrNotRepository (wrapped) if path is not a git repository.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return newRepository(repo, path)
}

// OpenFrom opens the repository containing path, walking up the directory
// tree to find the repository root. Intended for CLI use where the caller
// may be anywhere inside the checkout.
func OpenFrom(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return newRepository(repo, "")
}

// NewRepositoryFrom creates a Repository from an existing go-git handle.
// Primarily used by tests that construct repositories directly.
func NewRepositoryFrom(repo *gogit.Repository, root string) *Repository {
	return &Repository{repo: repo, root: root}
}

func newRepository(repo *gogit.Repository, root string) (*Repository, error) {
	if root == "" {
		wt, err := repo.Worktree()
		if err != nil {
			return nil, fmt.Errorf("getting worktree: %w", err)
		}
		root = wt.Filesystem().Root()
	}
	return &Repository{repo: repo, root: root}, nil
}

// Underlying returns the go-git repository for operations not covered
// by the facade.
func (r *Repository) Underlying() *gogit.Repository {
	return r.repo
}

// Root returns the root directory of the repository's main worktree.
func (r *Repository) Root() string {
	return r.root
}

// Workdir returns the working directory of the repository as reported by
// go-git, falling back to Root when the worktree is unavailable.
func (r *Repository) Workdir() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return r.root
	}
	return wt.Filesystem().Root()
}

// Head returns the resolved HEAD reference.
func (r *Repository) Head() (*plumbing.Reference, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	return head, nil
}

// CurrentBranch returns the short name of the currently checked-out branch.
// Returns empty string and no error for detached HEAD state.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	if head.Name() == plumbing.HEAD {
		return "", nil
	}
	return head.Name().Short(), nil
}

// RemoteURL returns the first URL of the named remote, or empty string if
// the remote is not configured.
func (r *Repository) RemoteURL(name string) string {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// BranchExists checks whether a local branch exists.
func (r *Repository) BranchExists(branch string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking branch %q: %w", branch, err)
	}
	return true, nil
}

// CreateBranchAt creates refs/heads/<branch> pointing at commit. The caller
// is responsible for verifying the branch does not already exist; the write
// itself does not force-check the previous value.
func (r *Repository) CreateBranchAt(branch string, commit plumbing.Hash) error {
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), commit)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("creating branch %q: %w", branch, err)
	}
	return nil
}

// RemoveBranch deletes a local branch ref and its tracking config,
// regardless of merge status. Returns ErrBranchNotFound if the ref
// does not exist.
func (r *Repository) RemoveBranch(branch string) error {
	branchRef := plumbing.NewBranchReferenceName(branch)
	if _, err := r.repo.Reference(branchRef, true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("resolving branch %q: %w", branch, err)
	}
	if err := r.repo.Storer.RemoveReference(branchRef); err != nil {
		return fmt.Errorf("deleting branch ref: %w", err)
	}
	// Tracking config may not exist for local-only branches.
	if err := r.repo.DeleteBranch(branch); err != nil {
		if !errors.Is(err, gogit.ErrBranchNotFound) {
			return fmt.Errorf("branch ref deleted but config cleanup failed: %w", err)
		}
	}
	return nil
}

// ResolveRevision resolves a revision (branch, tag, commit) to a commit hash.
func (r *Repository) ResolveRevision(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %q: %w", rev, err)
	}
	return *hash, nil
}

// Worktrees returns the linked worktree registry for this repository.
// The set is lazily initialized on first access. Returns an error if the
// repository's storage does not support worktrees.
func (r *Repository) Worktrees() (*WorktreeSet, error) {
	r.worktreeOnce.Do(func() {
		r.worktrees, r.worktreeErr = newWorktreeSet(r.repo)
	})
	return r.worktrees, r.worktreeErr
}
