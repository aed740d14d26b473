// Package status provides the status command.
package status

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/iostreams"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

// StatusOptions contains the options for the status command.
type StatusOptions struct {
	IOStreams *iostreams.IOStreams
	Service   func() *worktrunk.Service

	RepoRoot string
}

// NewCmdStatus creates the status command.
func NewCmdStatus(f *cmdutil.Factory, runF func(context.Context, *StatusOptions) error) *cobra.Command {
	opts := &StatusOptions{
		IOStreams: f.IOStreams,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
	}

	cmd := &cobra.Command{
		Use:   "status [PATH]",
		Short: "Show repository readiness",
		Long: `Checks that PATH (default: current directory) is a usable git repository
and prints its current branch and origin remote URL.`,
		Example: `  # Check the current directory
  worktrunk status

  # Check an explicit path
  worktrunk status ~/src/myrepo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.RepoRoot = args[0]
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				opts.RepoRoot = cwd
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return statusRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func statusRun(ctx context.Context, opts *StatusOptions) error {
	result, err := opts.Service().EnsureRepoReady(ctx, worktrunk.EnsureRepoReadyParams{
		RepoRoot: opts.RepoRoot,
	})
	if err != nil {
		return err
	}

	ios := opts.IOStreams
	cs := ios.ColorScheme()

	fmt.Fprintf(ios.Out, "%s %s\n", cs.Bold("Repository:"), opts.RepoRoot)

	branch := result.DefaultBranch
	if branch == "" {
		branch = "(detached)"
	}
	fmt.Fprintf(ios.Out, "%s %s\n", cs.Bold("Branch:"), branch)

	if result.RemoteURL != "" {
		fmt.Fprintf(ios.Out, "%s %s\n", cs.Bold("Remote:"), result.RemoteURL)
	}

	return nil
}
