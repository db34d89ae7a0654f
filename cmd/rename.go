package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/engine"
	"github.com/eykd/fmgr-go/internal/names"
)

// RenameRunner defines the interface for running the rename operation.
type RenameRunner interface {
	Rename(ctx context.Context, from, to string) (*engine.Report, error)
}

// NewRenameCmd creates the rename command with the given runner.
func NewRenameCmd(runner RenameRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rename <path> <new-name>",
		Short:        "Rename an entry within its directory",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := filepath.Clean(args[0])
			name, err := names.Normalize(args[1])
			if err != nil {
				return &ContextError{Op: "rename", Path: from, Err: err}
			}
			to := filepath.Join(filepath.Dir(from), name)
			report, err := runner.Rename(cmd.Context(), from, to)
			return finishBatch(cmd, report, err)
		},
	}

	return cmd
}
