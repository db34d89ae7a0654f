package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/engine"
)

// CopyRunner defines the interface for copying or moving entries between
// directories.
type CopyRunner interface {
	Names(dir string, patterns []string) ([]string, error)
	Copy(ctx context.Context, sourceDir, destDir string, names []string, move bool) (*engine.Report, error)
}

// NewCopyCmd creates the copy command with the given runner.
func NewCopyCmd(runner CopyRunner) *cobra.Command {
	return newTransferCmd(runner, false)
}

// NewMoveCmd creates the move command with the given runner.
func NewMoveCmd(runner CopyRunner) *cobra.Command {
	return newTransferCmd(runner, true)
}

func newTransferCmd(runner CopyRunner, move bool) *cobra.Command {
	var from, to string

	use, short := "copy", "Copy entries of a directory into another directory"
	if move {
		use, short = "move", "Move entries of a directory into another directory"
	}

	cmd := &cobra.Command{
		Use:          use + " <name|glob>... --to DIR",
		Short:        short,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := runner.Names(from, args)
			if err != nil {
				return &ContextError{Op: use, Path: from, Err: err}
			}
			report, err := runner.Copy(cmd.Context(), from, to, names, move)
			return finishBatch(cmd, report, err)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination directory")
	cmd.Flags().StringVar(&from, "from", ".", "Directory the names are taken from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
