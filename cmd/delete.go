package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/engine"
	"github.com/eykd/fmgr-go/internal/selection"
)

// DeleteRunner defines the interface for running the delete operation.
type DeleteRunner interface {
	Expand(patterns []string) ([]string, error)
	Summarize(ctx context.Context, paths []string) (selection.Summary, error)
	Confirm(ctx context.Context, question string) (bool, error)
	Delete(ctx context.Context, paths []string) (*engine.Report, error)
}

// NewDeleteCmd creates the delete command with the given runner.
func NewDeleteCmd(runner DeleteRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "delete <path|glob>...",
		Aliases:      []string{"rm"},
		Short:        "Delete files and directory trees",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := runner.Expand(args)
			if err != nil {
				return &ContextError{Op: "delete", Err: err}
			}

			if !GetAssumeYes() {
				summary, err := runner.Summarize(cmd.Context(), paths)
				if err != nil {
					return &ContextError{Op: "delete", Err: err}
				}
				question := fmt.Sprintf("Delete %d item(s) (%s)?", len(paths), summary)
				ok, err := runner.Confirm(cmd.Context(), question)
				if err != nil {
					return err
				}
				if !ok {
					return &AbortedError{Op: "delete"}
				}
			}

			report, err := runner.Delete(cmd.Context(), paths)
			return finishBatch(cmd, report, err)
		},
	}

	return cmd
}
