// Package root assembles the worktrunk command tree.
package root

import (
	"github.com/spf13/cobra"

	clonecmd "github.com/worktrunk/worktrunk/internal/cmd/clone"
	initcmd "github.com/worktrunk/worktrunk/internal/cmd/init"
	statuscmd "github.com/worktrunk/worktrunk/internal/cmd/status"
	versioncmd "github.com/worktrunk/worktrunk/internal/cmd/version"
	"github.com/worktrunk/worktrunk/internal/cmd/worktree"
	"github.com/worktrunk/worktrunk/internal/cmdutil"
	internalconfig "github.com/worktrunk/worktrunk/internal/config"
	"github.com/worktrunk/worktrunk/internal/logger"
)

// NewCmdRoot creates the root command for the worktrunk CLI.
func NewCmdRoot(f *cmdutil.Factory, version, commit string) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "worktrunk",
		Short: "Manage git worktrees, one per branch",
		Long: `Worktrunk orchestrates git worktrees so each branch gets its own
working directory.

Quick start:
  worktrunk init                     # Write default user settings
  worktrunk status                   # Check the current repository
  worktrunk worktree add feat-42     # Create a worktree for a branch
  worktrunk worktree list            # List worktrees
  worktrunk worktree remove feat-42  # Remove a worktree`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations: map[string]string{
			"versionInfo": versioncmd.Format(version, commit),
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f.Debug = debug
			initializeLogger(f, debug)

			logger.Debug().
				Str("version", f.Version).
				Bool("debug", debug).
				Msg("worktrunk starting")

			return nil
		},
		Version: f.Version,
	}

	cmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")

	cmd.SetVersionTemplate(versioncmd.Format(version, commit))

	cmd.AddCommand(initcmd.NewCmdInit(f, nil))
	cmd.AddCommand(statuscmd.NewCmdStatus(f, nil))
	cmd.AddCommand(clonecmd.NewCmdClone(f, nil))
	cmd.AddCommand(worktree.NewCmdWorktree(f))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, commit))

	return cmd
}

// initializeLogger sets up the logger with file logging if possible.
// Falls back to console-only logging on any errors.
func initializeLogger(f *cmdutil.Factory, debug bool) {
	settings, err := f.Settings()
	if err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to load settings")
		return
	}

	logsDir, err := internalconfig.LogsDir()
	if err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to resolve logs directory")
		return
	}

	rotation := &logger.RotationConfig{
		FileEnabled: settings.Logging.FileEnabled,
		MaxSizeMB:   settings.Logging.MaxSizeMB,
		MaxAgeDays:  settings.Logging.MaxAgeDays,
		MaxBackups:  settings.Logging.MaxBackups,
	}
	if !rotation.IsFileEnabled() {
		logger.Init(debug)
		return
	}

	if err := logger.InitWithFile(debug, logsDir, rotation); err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging unavailable")
	}
}
