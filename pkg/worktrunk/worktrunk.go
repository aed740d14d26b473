// Package worktrunk is the embeddable host surface for git worktree
// orchestration. It wraps the core operations with a bounded worker pool,
// JSON-ready parameter and result records, and a stable string error
// format of the form "[CODE] message" so hosts in any language can match
// on error codes.
package worktrunk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/worktrunk/worktrunk/internal/logger"
	"github.com/worktrunk/worktrunk/internal/worktree"
)

// defaultMaxConcurrency bounds how many operations run at once, matching
// the four-thread blocking pool most embedders provide.
const defaultMaxConcurrency = 4

// Service executes worktree operations with bounded concurrency. The zero
// value is not usable; construct with NewService.
type Service struct {
	sem              chan struct{}
	progressInterval time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithMaxConcurrency caps the number of operations that may run
// concurrently. Values below one are ignored.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.sem = make(chan struct{}, n)
		}
	}
}

// WithProgressInterval sets the minimum spacing between time-gated clone
// progress emissions. Values of zero or below keep the built-in interval.
func WithProgressInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.progressInterval = d
		}
	}
}

// NewService creates a Service with the default concurrency bound.
func NewService(opts ...Option) *Service {
	s := &Service{sem: make(chan struct{}, defaultMaxConcurrency)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// acquire blocks until a worker slot is free or ctx is done.
func (s *Service) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &Error{Code: string(worktree.CodeGitError), Message: "operation canceled: " + ctx.Err().Error()}
	}
}

func (s *Service) release() {
	<-s.sem
}

// EnsureRepoReadyParams are the inputs to EnsureRepoReady.
type EnsureRepoReadyParams struct {
	RepoRoot string `json:"repoRoot"`
}

// EnsureRepoReadyResult reports repository readiness.
type EnsureRepoReadyResult struct {
	IsGitRepo     bool   `json:"isGitRepo"`
	DefaultBranch string `json:"defaultBranch,omitempty"`
	RemoteURL     string `json:"remoteUrl,omitempty"`
}

// EnsureRepoReady validates that params.RepoRoot is a usable git repository
// and reports its current branch and origin URL.
func (s *Service) EnsureRepoReady(ctx context.Context, params EnsureRepoReadyParams) (*EnsureRepoReadyResult, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	log := opLogger("ensure_repo_ready")
	log.Str("repo", params.RepoRoot).Msg("operation start")

	status, err := worktree.EnsureRepoReady(ctx, params.RepoRoot)
	if err != nil {
		return nil, wrapError(err)
	}

	return &EnsureRepoReadyResult{
		IsGitRepo:     status.IsGitRepo,
		DefaultBranch: status.DefaultBranch,
		RemoteURL:     status.RemoteURL,
	}, nil
}

// EnsureWorktreeParams are the inputs to EnsureWorktree.
type EnsureWorktreeParams struct {
	RepoRoot        string `json:"repoRoot"`
	Branch          string `json:"branch"`
	WorktreeBaseDir string `json:"worktreeBaseDir"`
	PathTemplate    string `json:"pathTemplate,omitempty"`
}

// EnsureWorktreeResult reports the worktree backing a branch.
type EnsureWorktreeResult struct {
	Branch       string `json:"branch"`
	WorktreePath string `json:"worktreePath"`
}

// EnsureWorktree creates a worktree for params.Branch if one does not
// already exist, creating the branch from HEAD when needed. The operation
// is idempotent: an existing worktree for the branch is returned as-is.
func (s *Service) EnsureWorktree(ctx context.Context, params EnsureWorktreeParams) (*EnsureWorktreeResult, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	log := opLogger("ensure_worktree")
	log.Str("repo", params.RepoRoot).Str("branch", params.Branch).Msg("operation start")

	ref, err := worktree.EnsureWorktree(ctx, params.RepoRoot, params.Branch, params.WorktreeBaseDir, params.PathTemplate)
	if err != nil {
		return nil, wrapError(err)
	}

	return &EnsureWorktreeResult{Branch: ref.Branch, WorktreePath: ref.Path}, nil
}

// ListWorktreesParams are the inputs to ListWorktrees.
type ListWorktreesParams struct {
	RepoRoot string `json:"repoRoot"`
}

// WorktreeInfo describes one worktree attached to a repository.
type WorktreeInfo struct {
	Branch   string `json:"branch"`
	Path     string `json:"path"`
	IsMain   bool   `json:"isMain"`
	IsLocked bool   `json:"isLocked"`
}

// ListWorktrees returns the main working directory followed by every
// linked worktree.
func (s *Service) ListWorktrees(ctx context.Context, params ListWorktreesParams) ([]WorktreeInfo, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	log := opLogger("list_worktrees")
	log.Str("repo", params.RepoRoot).Msg("operation start")

	infos, err := worktree.ListWorktrees(ctx, params.RepoRoot)
	if err != nil {
		return nil, wrapError(err)
	}

	out := make([]WorktreeInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, WorktreeInfo{
			Branch:   info.Branch,
			Path:     info.Path,
			IsMain:   info.IsMain,
			IsLocked: info.IsLocked,
		})
	}
	return out, nil
}

// RemoveWorktreeParams are the inputs to RemoveWorktree.
type RemoveWorktreeParams struct {
	RepoRoot string `json:"repoRoot"`
	Branch   string `json:"branch"`
}

// RemoveWorktree removes the worktree backing params.Branch, deletes its
// directory, and drops the branch when no other worktree holds it.
func (s *Service) RemoveWorktree(ctx context.Context, params RemoveWorktreeParams) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	log := opLogger("remove_worktree")
	log.Str("repo", params.RepoRoot).Str("branch", params.Branch).Msg("operation start")

	if err := worktree.RemoveWorktree(ctx, params.RepoRoot, params.Branch); err != nil {
		return wrapError(err)
	}
	return nil
}

// CloneProgress mirrors worktree.CloneProgress for host consumption.
type CloneProgress = worktree.CloneProgress

// ProgressFunc receives rate-limited clone progress updates. Calls may
// arrive on a different goroutine than the CloneRepository caller.
type ProgressFunc = worktree.ProgressFunc

// CloneRepository clones url into targetPath, streaming progress updates
// to onProgress, and returns the working directory of the new clone.
func (s *Service) CloneRepository(ctx context.Context, url, targetPath string, onProgress ProgressFunc) (string, error) {
	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.release()

	log := opLogger("clone_repository")
	log.Str("url", url).Str("target", targetPath).Msg("operation start")

	var cloneOpts []worktree.CloneOption
	if s.progressInterval > 0 {
		cloneOpts = append(cloneOpts, worktree.WithProgressInterval(s.progressInterval))
	}

	workdir, err := worktree.CloneRepository(ctx, url, targetPath, onProgress, cloneOpts...)
	if err != nil {
		return "", wrapError(err)
	}
	return workdir, nil
}

func opLogger(op string) *logEvent {
	return &logEvent{op: op, task: uuid.NewString()}
}

// logEvent accumulates operation-scoped fields before emitting one debug
// line tagged with a unique task id.
type logEvent struct {
	op     string
	task   string
	fields [][2]string
}

func (e *logEvent) Str(key, value string) *logEvent {
	e.fields = append(e.fields, [2]string{key, value})
	return e
}

func (e *logEvent) Msg(msg string) {
	ev := logger.Log.Debug().Str("op", e.op).Str("task", e.task)
	for _, f := range e.fields {
		ev = ev.Str(f[0], f[1])
	}
	ev.Msg(msg)
}

// Error is the host-facing error type. Its string form is "[CODE] message"
// with CODE drawn from the closed set of operation error codes.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// wrapError converts a core error into the host Error form, preserving the
// code and flattening the cause chain into the message.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: string(worktree.CodeOf(err)), Message: err.Error()}
}

// CodeOf extracts the error code from an error returned by Service
// methods, or the empty string for foreign errors.
func CodeOf(err error) string {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Code
	}
	return ""
}
