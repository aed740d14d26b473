// Package list provides the worktree list command.
package list

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/iostreams"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

// ListOptions contains the options for the list command.
type ListOptions struct {
	IOStreams *iostreams.IOStreams
	Service   func() *worktrunk.Service

	RepoRoot string
	Quiet    bool
}

// NewCmdList creates the worktree list command.
func NewCmdList(f *cmdutil.Factory, runF func(context.Context, *ListOptions) error) *cobra.Command {
	opts := &ListOptions{
		IOStreams: f.IOStreams,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List worktrees for a repository",
		Long: `Lists the main working directory and every linked worktree.

Shows the branch name, filesystem path, and whether the worktree is the
main checkout or locked.`,
		Example: `  # List worktrees for the current repository
  worktrunk worktree list

  # List only branch names
  worktrunk worktree ls -q`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return listRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RepoRoot, "repo", "R", "", "Repository root (default: current directory)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only display branch names")

	return cmd
}

func listRun(ctx context.Context, opts *ListOptions) error {
	infos, err := opts.Service().ListWorktrees(ctx, worktrunk.ListWorktreesParams{
		RepoRoot: opts.RepoRoot,
	})
	if err != nil {
		return err
	}

	ios := opts.IOStreams

	if len(infos) == 0 {
		if !opts.Quiet {
			return ios.PrintEmpty("worktrees", "Create one with `worktrunk worktree add <branch>`.")
		}
		return nil
	}

	if opts.Quiet {
		for _, info := range infos {
			fmt.Fprintln(ios.Out, info.Branch)
		}
		return nil
	}

	w := tabwriter.NewWriter(ios.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BRANCH\tPATH\tSTATUS")
	for _, info := range infos {
		status := ""
		switch {
		case info.IsMain:
			status = "main"
		case info.IsLocked:
			status = "locked"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Branch, info.Path, status)
	}
	return w.Flush()
}
