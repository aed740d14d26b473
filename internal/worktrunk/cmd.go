// Package worktrunk hosts the CLI entry point.
package worktrunk

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/worktrunk/worktrunk/internal/cmd/factory"
	"github.com/worktrunk/worktrunk/internal/cmd/root"
	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/logger"
	"github.com/worktrunk/worktrunk/internal/signals"
)

// Build-time variables injected via ldflags
var (
	Version = "dev"
	Commit  = "none"
)

// Main is the entry point for the worktrunk CLI.
// It initializes the Factory, creates the root command, and executes it.
func Main() int {
	// Ensure logs are flushed on exit
	defer logger.CloseFileWriter()

	ctx, cancel := signals.SetupSignalContext(context.Background())
	defer cancel()

	f := factory.New(Version, Commit)

	rootCmd := root.NewCmdRoot(f, Version, Commit)
	rootCmd.SetArgs(os.Args[1:])

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	if errors.Is(err, cmdutil.SilentError) {
		return 1
	}

	var exitErr *cmdutil.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	fmt.Fprintf(f.IOStreams.ErrOut, "Error: %v\n", err)

	var flagErr *cmdutil.FlagError
	if errors.As(err, &flagErr) {
		fmt.Fprintln(f.IOStreams.ErrOut, cmd.UsageString())
		return 2
	}

	return 1
}
