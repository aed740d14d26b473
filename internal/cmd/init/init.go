// Package init provides the init command for user-level setup.
package init

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/config"
	"github.com/worktrunk/worktrunk/internal/iostreams"
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	IOStreams *iostreams.IOStreams

	// SettingsPath overrides the default settings location, for tests.
	SettingsPath string
}

// NewCmdInit creates the init command.
func NewCmdInit(f *cmdutil.Factory, runF func(context.Context, *InitOptions) error) *cobra.Command {
	opts := &InitOptions{
		IOStreams: f.IOStreams,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize worktrunk user settings",
		Long: `Creates the user settings file with default values.

The settings file controls the worktree base directory, the worktree path
template, clone progress pacing, and log rotation. An existing file is
left untouched.`,
		Example: `  # Write default settings
  worktrunk init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return initRun(cmd.Context(), opts)
		},
	}

	return cmd
}

func initRun(_ context.Context, opts *InitOptions) error {
	ios := opts.IOStreams

	path := opts.SettingsPath
	if path == "" {
		p, err := config.SettingsPath()
		if err != nil {
			return fmt.Errorf("resolving settings path: %w", err)
		}
		path = p
	}

	created, err := config.WriteDefaultSettings(path)
	if err != nil {
		return err
	}

	if created {
		return ios.PrintSuccess("Created settings file at %s", path)
	}
	fmt.Fprintf(ios.ErrOut, "Settings file already exists at %s\n", path)
	return nil
}
