package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/engine"
)

// PasteRunner defines the interface for carrying out the clipboard.
type PasteRunner interface {
	Paste(ctx context.Context, destDir string) (*engine.Report, error)
}

// NewPasteCmd creates the paste command with the given runner.
func NewPasteCmd(runner PasteRunner) *cobra.Command {
	return &cobra.Command{
		Use:          "paste [dir]",
		Short:        "Copy or move the clipboard entries into a directory",
		Long:         "Copy or move the clipboard entries into dir (default: the current directory).\nThe clipboard is emptied once the paste has run.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := "."
			if len(args) == 1 {
				dest = args[0]
			}
			report, err := runner.Paste(cmd.Context(), dest)
			return finishBatch(cmd, report, err)
		},
	}
}
