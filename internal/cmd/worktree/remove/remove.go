// Package remove provides the worktree remove command.
package remove

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/iostreams"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

// RemoveOptions contains the options for the remove command.
type RemoveOptions struct {
	IOStreams *iostreams.IOStreams
	Service   func() *worktrunk.Service

	RepoRoot string
	Branches []string
}

// NewCmdRemove creates the worktree remove command.
func NewCmdRemove(f *cmdutil.Factory, runF func(context.Context, *RemoveOptions) error) *cobra.Command {
	opts := &RemoveOptions{
		IOStreams: f.IOStreams,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
	}

	cmd := &cobra.Command{
		Use:     "remove BRANCH [BRANCH...]",
		Aliases: []string{"rm"},
		Short:   "Remove one or more worktrees",
		Long: `Removes worktrees by their branch name.

This removes the git worktree metadata, deletes the worktree directory,
and drops the branch when it is no longer checked out anywhere.`,
		Example: `  # Remove a worktree
  worktrunk worktree remove feat-42

  # Remove multiple worktrees
  worktrunk worktree rm feat-42 feat-43`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Branches = args
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
			return removeRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RepoRoot, "repo", "R", "", "Repository root (default: current directory)")

	return cmd
}

func removeRun(ctx context.Context, opts *RemoveOptions) error {
	svc := opts.Service()
	ios := opts.IOStreams

	var removeErrors []error
	err := cmdutil.WithRepoLock(ctx, opts.RepoRoot, func() error {
		for _, branch := range opts.Branches {
			if err := svc.RemoveWorktree(ctx, worktrunk.RemoveWorktreeParams{
				RepoRoot: opts.RepoRoot,
				Branch:   branch,
			}); err != nil {
				removeErrors = append(removeErrors, fmt.Errorf("%s: %w", branch, err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	successCount := len(opts.Branches) - len(removeErrors)
	if successCount == 1 {
		fmt.Fprintln(ios.ErrOut, "Removed 1 worktree")
	} else if successCount > 1 {
		fmt.Fprintf(ios.ErrOut, "Removed %d worktrees\n", successCount)
	}

	if len(removeErrors) == 1 {
		return removeErrors[0]
	}
	if len(removeErrors) > 1 {
		for _, removeErr := range removeErrors {
			_ = ios.PrintFailure("%v", removeErr)
		}
		return cmdutil.SilentError
	}
	return nil
}
