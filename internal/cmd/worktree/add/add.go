// Package add provides the worktree add command.
package add

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/config"
	"github.com/worktrunk/worktrunk/internal/iostreams"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

// AddOptions contains the options for the add command.
type AddOptions struct {
	IOStreams *iostreams.IOStreams
	Settings  func() (*config.Settings, error)
	Service   func() *worktrunk.Service

	Branch   string
	RepoRoot string
	BaseDir  string
	Template string
}

// NewCmdAdd creates the worktree add command.
func NewCmdAdd(f *cmdutil.Factory, runF func(context.Context, *AddOptions) error) *cobra.Command {
	opts := &AddOptions{
		IOStreams: f.IOStreams,
		Settings:  f.Settings,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
	}

	cmd := &cobra.Command{
		Use:   "add BRANCH",
		Short: "Create a worktree for a branch",
		Long: `Creates a git worktree for the specified branch.

If a worktree already exists for the branch, the command succeeds and
prints its path (idempotent). If the branch does not exist, it is created
from HEAD. A branch name containing slashes is flattened with dashes for
the worktree directory name.`,
		Example: `  # Create a worktree for a new branch
  worktrunk worktree add feat-42

  # Create a worktree for a branch with slashes
  worktrunk worktree add feature/new-login

  # Place the worktree under a custom base directory
  worktrunk worktree add feat-42 --base-dir /tmp/trees`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Branch = args[0]
			if opts.RepoRoot == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				opts.RepoRoot = cwd
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return addRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RepoRoot, "repo", "R", "", "Repository root (default: current directory)")
	cmd.Flags().StringVar(&opts.BaseDir, "base-dir", "", "Base directory for worktrees (default: from settings)")
	cmd.Flags().StringVar(&opts.Template, "template", "", "Path template for the worktree location")

	return cmd
}

func addRun(ctx context.Context, opts *AddOptions) error {
	settings, err := opts.Settings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = settings.Worktree.BaseDir
	}
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(opts.RepoRoot, baseDir)
	}

	template := opts.Template
	if template == "" {
		template = settings.Worktree.PathTemplate
	}

	var result *worktrunk.EnsureWorktreeResult
	err = cmdutil.WithRepoLock(ctx, opts.RepoRoot, func() error {
		var ensureErr error
		result, ensureErr = opts.Service().EnsureWorktree(ctx, worktrunk.EnsureWorktreeParams{
			RepoRoot:        opts.RepoRoot,
			Branch:          opts.Branch,
			WorktreeBaseDir: baseDir,
			PathTemplate:    template,
		})
		return ensureErr
	})
	if err != nil {
		return err
	}

	return opts.IOStreams.PrintSuccess("Worktree ready at %s", result.WorktreePath)
}
