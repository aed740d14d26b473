// Package worktree provides commands for managing git worktrees.
package worktree

import (
	"github.com/spf13/cobra"

	"github.com/worktrunk/worktrunk/internal/cmd/worktree/add"
	"github.com/worktrunk/worktrunk/internal/cmd/worktree/list"
	"github.com/worktrunk/worktrunk/internal/cmd/worktree/remove"
	"github.com/worktrunk/worktrunk/internal/cmdutil"
)

// NewCmdWorktree creates the worktree parent command.
func NewCmdWorktree(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worktree",
		Short: "Manage git worktrees for isolated branch development",
		Long: `Manage git worktrees for isolated branch development.

Worktrees allow working on different branches simultaneously without
switching branches in your main repository. Each worktree is a separate
checkout of the repository at a specific branch.`,
		Example: `  # Create a worktree for a branch (created from HEAD if missing)
  worktrunk worktree add feat-42

  # Create a worktree for a branch with slashes
  worktrunk worktree add feature/new-login

  # List all worktrees
  worktrunk worktree list

  # Remove a worktree by branch name
  worktrunk worktree remove feat-42`,
		// No RunE - this is a parent command
	}

	cmd.AddCommand(add.NewCmdAdd(f, nil))
	cmd.AddCommand(list.NewCmdList(f, nil))
	cmd.AddCommand(remove.NewCmdRemove(f, nil))

	return cmd
}
