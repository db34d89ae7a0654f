package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/journal"
	"github.com/eykd/fmgr-go/internal/selection"
)

// HistoryRunner defines the interface for reading the journal.
type HistoryRunner interface {
	Recent(limit int) ([]journal.Record, error)
	Batch(id string) ([]journal.Record, error)
	Decisions(batch string) ([]journal.Decision, error)
}

// historyOutput is the JSON structure for the history command.
type historyOutput struct {
	Events    []journal.Record   `json:"events"`
	Decisions []journal.Decision `json:"decisions,omitempty"`
}

// NewHistoryCmd creates the history command with the given runner.
func NewHistoryCmd(runner HistoryRunner) *cobra.Command {
	var limit int
	var batch string

	cmd := &cobra.Command{
		Use:          "history",
		Short:        "Show recent operations, or one batch with its decisions",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			var out historyOutput
			var err error
			if batch != "" {
				if out.Events, err = runner.Batch(batch); err != nil {
					return err
				}
				if out.Decisions, err = runner.Decisions(batch); err != nil {
					return err
				}
			} else if out.Events, err = runner.Recent(limit); err != nil {
				return err
			}

			if out.Events == nil {
				out.Events = []journal.Record{}
			}
			if GetJSON() {
				writeJSON(cmd.OutOrStdout(), out)
				return nil
			}
			printHistory(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent events to show")
	cmd.Flags().StringVar(&batch, "batch", "", "Show every event and decision of one batch")

	return cmd
}

func printHistory(w io.Writer, h historyOutput) {
	if len(h.Events) == 0 {
		fmt.Fprintln(w, "No history")
		return
	}
	for _, r := range h.Events {
		line := fmt.Sprintf("%s  %-8s %-8s %s", r.At.Local().Format("2006-01-02 15:04:05"), r.Op, r.Outcome, r.Path)
		if r.Target != "" {
			line += " -> " + r.Target
		}
		if r.Bytes > 0 {
			line += " (" + selection.FormatBytes(r.Bytes) + ")"
		}
		if r.Error != "" {
			line += ": " + r.Error
		}
		fmt.Fprintln(w, line)
	}
	for _, d := range h.Decisions {
		fmt.Fprintf(w, "%s  %-8s %-8s %s [%s, %s]\n", d.At.Local().Format("2006-01-02 15:04:05"), d.Op, d.Decision, d.Path, d.Kind, d.Hint)
	}
}
