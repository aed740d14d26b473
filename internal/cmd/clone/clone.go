// Package clone provides the clone command.
package clone

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/config"
	"github.com/worktrunk/worktrunk/internal/iostreams"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

// CloneOptions contains the options for the clone command.
type CloneOptions struct {
	IOStreams *iostreams.IOStreams
	Settings  func() (*config.Settings, error)
	Service   func(...worktrunk.Option) *worktrunk.Service

	URL        string
	TargetPath string
}

// NewCmdClone creates the clone command.
func NewCmdClone(f *cmdutil.Factory, runF func(context.Context, *CloneOptions) error) *cobra.Command {
	opts := &CloneOptions{
		IOStreams: f.IOStreams,
		Settings:  f.Settings,
		Service: func(serviceOpts ...worktrunk.Option) *worktrunk.Service {
			return worktrunk.NewService(serviceOpts...)
		},
	}

	cmd := &cobra.Command{
		Use:   "clone URL [DIR]",
		Short: "Clone a repository with progress reporting",
		Long: `Clones a repository from URL into DIR, streaming transfer progress
to stderr. When DIR is omitted it is derived from the last path segment
of the URL.`,
		Example: `  # Clone into ./myrepo
  worktrunk clone https://example.com/org/myrepo.git

  # Clone into an explicit directory
  worktrunk clone https://example.com/org/myrepo.git /tmp/checkout`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			if len(args) > 1 {
				opts.TargetPath = args[1]
			} else {
				opts.TargetPath = defaultTargetDir(opts.URL)
			}
			if opts.TargetPath == "" {
				return cmdutil.FlagErrorf("cannot derive a target directory from %q, pass DIR explicitly", opts.URL)
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return cloneRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func cloneRun(ctx context.Context, opts *CloneOptions) error {
	ios := opts.IOStreams

	settings, err := opts.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	onProgress := func(p worktrunk.CloneProgress) {
		if p.Total > 0 {
			fmt.Fprintf(ios.ErrOut, "%s: %d/%d (%d%%)\n", p.Phase, p.Current, p.Total, p.Percent)
		} else {
			fmt.Fprintf(ios.ErrOut, "%s\n", p.Phase)
		}
	}

	svc := opts.Service(worktrunk.WithProgressInterval(settings.Clone.ProgressInterval))
	workdir, err := svc.CloneRepository(ctx, opts.URL, opts.TargetPath, onProgress)
	if err != nil {
		return err
	}

	return ios.PrintSuccess("Cloned into %s", workdir)
}

// defaultTargetDir derives a directory name from the repository URL, the
// way git itself does: last path segment with any .git suffix stripped.
func defaultTargetDir(url string) string {
	trimmed := strings.TrimRight(url, "/")
	base := path.Base(trimmed)
	base = strings.TrimSuffix(base, ".git")
	if base == "." || base == "/" || base == "" {
		return ""
	}
	return base
}
