// Package worktree is the orchestration core: it reconciles a desired
// (branch, path) mapping against a repository's actual worktree set,
// composing branch creation, worktree registration, pruning, and branch
// deletion into idempotent operations.
//
// The core owns no state between calls; every operation re-opens the
// repository and runs synchronously begin-to-end on one goroutine. All
// failures surface as *Error with a stable code. Concurrent mutation of
// the same repository is not coordinated here — callers serialize
// conflicting mutations (the CLI takes a per-repo advisory lock).
package worktree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v6/plumbing"

	"github.com/worktrunk/worktrunk/internal/git"
	"github.com/worktrunk/worktrunk/internal/logger"
)

// RepoStatus reports whether a directory is an openable repository and
// what its HEAD currently names.
type RepoStatus struct {
	// IsGitRepo is always true on success; failure to open reports an error
	// instead.
	IsGitRepo bool

	// DefaultBranch is the short name of HEAD, or empty when HEAD is
	// detached or unborn.
	DefaultBranch string

	// RemoteURL is the URL of the "origin" remote, or empty when not
	// configured.
	RemoteURL string
}

// Ref names a worktree by its branch and working directory path.
type Ref struct {
	Branch string
	Path   string
}

// Info is a snapshot of one worktree at enumeration time. It may be stale
// by the time the caller acts on it.
type Info struct {
	Branch   string
	Path     string
	IsMain   bool
	IsLocked bool
}

// SanitizeWorktreeName derives a registry name from a branch name by
// replacing every slash with a dash: the registry stores entries as
// directory names under .git/worktrees, where embedded slashes would be
// read as nested paths.
//
// Branches that sanitize to the same name (a/b and a-b) are outside the
// supported input domain; the second registration fails.
func SanitizeWorktreeName(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// EnsureRepoReady verifies that repoRoot is an openable git repository and
// reports its default branch and origin URL.
func EnsureRepoReady(ctx context.Context, repoRoot string) (RepoStatus, error) {
	if err := ctx.Err(); err != nil {
		return RepoStatus{}, canceled(err)
	}

	if _, err := os.Stat(repoRoot); err != nil {
		if os.IsNotExist(err) {
			return RepoStatus{}, newError(CodeInvalidPath, nil, "path does not exist: %s", repoRoot)
		}
		return RepoStatus{}, newError(CodeIoError, err, "stat %s", repoRoot)
	}

	repo, err := openRepo(repoRoot)
	if err != nil {
		return RepoStatus{}, err
	}

	status := RepoStatus{
		IsGitRepo: true,
		RemoteURL: repo.RemoteURL("origin"),
	}
	// Detached and unborn HEAD both leave DefaultBranch empty without failing.
	if branch, err := repo.CurrentBranch(); err == nil {
		status.DefaultBranch = branch
	}
	return status, nil
}

// EnsureWorktree materializes a worktree for branch at a path rendered from
// template (or DefaultPathTemplate when template is empty). Idempotent: if
// any registered worktree already has branch checked out, its path is
// returned and nothing is mutated. If the branch does not exist, it is
// created at the current HEAD commit.
func EnsureWorktree(ctx context.Context, repoRoot, branch, baseDir, template string) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, canceled(err)
	}

	repo, err := openRepo(repoRoot)
	if err != nil {
		return Ref{}, err
	}
	set, err := worktreeSet(repo)
	if err != nil {
		return Ref{}, err
	}

	// Pre-flight existence check: this is what makes the call idempotent
	// under repeated invocation.
	entry, ok, err := findWorktreeForBranch(set, branch)
	if err != nil {
		return Ref{}, err
	}
	if ok {
		return Ref{Branch: branch, Path: entry.Path}, nil
	}

	tpl := DefaultTemplate()
	if template != "" {
		tpl = NewPathTemplate(template)
	}
	worktreePath := tpl.Render(repoRoot, baseDir, branch)

	if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
		return Ref{}, newError(CodeIoError, err, "creating parent directories for %s", worktreePath)
	}

	if err := ctx.Err(); err != nil {
		return Ref{}, canceled(err)
	}

	branchExists, err := repo.BranchExists(branch)
	if err != nil {
		return Ref{}, newError(CodeGitError, err, "checking branch '%s'", branch)
	}

	name := SanitizeWorktreeName(branch)
	branchRef := plumbing.NewBranchReferenceName(branch)

	if !branchExists {
		head, err := repo.Head()
		if err != nil {
			return Ref{}, newError(CodeGitError, err, "failed to get HEAD")
		}
		if err := repo.CreateBranchAt(branch, head.Hash()); err != nil {
			return Ref{}, newError(CodeWorktreeCreateFailed, err, "failed to create branch '%s'", branch)
		}
		// Not rolled back if registration below fails: the next call sees
		// the branch and takes the existing-branch path.
		logger.Debug().
			Str("branch", branch).
			Str("commit", head.Hash().String()).
			Msg("create branch for worktree")
	}

	if err := set.AddAtBranch(worktreePath, name, branchRef); err != nil {
		if branchExists {
			return Ref{}, newError(CodeWorktreeCreateFailed, err, "failed to create worktree for existing branch '%s'", branch)
		}
		return Ref{}, newError(CodeWorktreeCreateFailed, err, "failed to create worktree with new branch '%s'", branch)
	}

	logger.Debug().
		Str("branch", branch).
		Str("path", worktreePath).
		Str("name", name).
		Msg("worktree registered")

	return Ref{Branch: branch, Path: worktreePath}, nil
}

// ListWorktrees returns a snapshot of every worktree the repository itself
// would enumerate: the main worktree first (when HEAD resolves), then the
// linked worktrees in registry order.
func ListWorktrees(ctx context.Context, repoRoot string) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	repo, err := openRepo(repoRoot)
	if err != nil {
		return nil, err
	}

	var result []Info
	if head, err := repo.Head(); err == nil {
		if short := head.Name().Short(); short != "" {
			path := repo.Workdir()
			if path == "" {
				path = repoRoot
			}
			result = append(result, Info{
				Branch: short,
				Path:   trimTrailingSeparator(path),
				IsMain: true,
			})
		}
	}

	set, err := worktreeSet(repo)
	if err != nil {
		return nil, err
	}
	entries, err := set.Entries()
	if err != nil {
		return nil, newError(CodeGitError, err, "failed to list worktrees")
	}

	for _, entry := range entries {
		// Fall back to the registry name when the worktree cannot be read.
		branch := entry.Name
		if wtRepo, err := set.Open(entry.Path); err == nil {
			if head, err := wtRepo.Head(); err == nil {
				branch = head.Name().Short()
			}
		}
		result = append(result, Info{
			Branch:   branch,
			Path:     trimTrailingSeparator(entry.Path),
			IsLocked: entry.Locked,
		})
	}

	return result, nil
}

// RemoveWorktree prunes the worktree whose HEAD names branch — registry
// record and on-disk directory both — then best-effort deletes the local
// branch. Returns CodeWorktreeNotFound when no registered worktree has
// branch checked out.
func RemoveWorktree(ctx context.Context, repoRoot, branch string) error {
	if err := ctx.Err(); err != nil {
		return canceled(err)
	}

	repo, err := openRepo(repoRoot)
	if err != nil {
		return err
	}
	set, err := worktreeSet(repo)
	if err != nil {
		return err
	}

	entry, ok, err := findWorktreeForBranch(set, branch)
	if err != nil {
		return err
	}
	if !ok {
		return newError(CodeWorktreeNotFound, nil, "no worktree found for branch '%s'", branch)
	}

	if err := ctx.Err(); err != nil {
		return canceled(err)
	}

	if err := set.Prune(entry); err != nil {
		return newError(CodeWorktreeRemoveFailed, err, "failed to remove worktree for branch '%s'", branch)
	}

	// The prune is the authoritative operation; branch deletion is
	// best-effort.
	if err := repo.RemoveBranch(branch); err != nil {
		logger.Debug().
			Str("branch", branch).
			Err(err).
			Msg("branch delete after worktree prune failed")
	}

	return nil
}

// openRepo opens repoRoot exactly, mapping failures into the taxonomy.
func openRepo(repoRoot string) (*git.Repository, error) {
	repo, err := git.Open(repoRoot)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return nil, newError(CodeNotAGitRepo, nil, "not a git repository: %s", repoRoot)
		}
		return nil, newError(CodeGitError, err, "failed to open repository at %s", repoRoot)
	}
	return repo, nil
}

func worktreeSet(repo *git.Repository) (*git.WorktreeSet, error) {
	set, err := repo.Worktrees()
	if err != nil {
		return nil, newError(CodeGitError, err, "initializing worktree registry")
	}
	return set, nil
}

// findWorktreeForBranch scans the registry for an entry whose HEAD short
// name equals branch. Entries that fail to open or whose HEAD is unreadable
// are skipped: one broken link must not mask the rest, and a broken entry
// never satisfies the check. Only the registry enumeration itself failing
// is an error.
func findWorktreeForBranch(set *git.WorktreeSet, branch string) (git.Entry, bool, error) {
	entries, err := set.Entries()
	if err != nil {
		return git.Entry{}, false, newError(CodeGitError, err, "failed to list worktrees")
	}
	for _, entry := range entries {
		wtRepo, err := set.Open(entry.Path)
		if err != nil {
			continue
		}
		head, err := wtRepo.Head()
		if err != nil {
			continue
		}
		if head.Name().Short() == branch {
			return entry, true, nil
		}
	}
	return git.Entry{}, false, nil
}

func trimTrailingSeparator(path string) string {
	return strings.TrimRight(path, string(os.PathSeparator))
}

func canceled(err error) *Error {
	return newError(CodeGitError, err, "operation canceled")
}
