package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/engine"
	"github.com/eykd/fmgr-go/internal/selection"
)

// writeJSON encodes v as JSON to w, handling I/O errors at the boundary.
func writeJSON(w io.Writer, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
	}
}

// printReport writes one line per selected item and a totals line.
func printReport(w io.Writer, r *engine.Report) {
	for _, it := range r.Items {
		if it.Target != "" {
			fmt.Fprintf(w, "%-8s %s -> %s\n", it.Outcome, it.Path, it.Target)
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", it.Outcome, it.Path)
	}
	fmt.Fprintf(w, "%s: %d done, %d skipped, %s\n", r.Op, r.Completed, r.Skipped, selection.FormatBytes(r.Bytes))
}

// finishBatch prints the report of a batch and converts a user abort into
// an AbortedError.
func finishBatch(cmd *cobra.Command, r *engine.Report, err error) error {
	if r != nil {
		if GetJSON() {
			writeJSON(cmd.OutOrStdout(), r)
		} else {
			printReport(cmd.OutOrStdout(), r)
		}
	}
	if r != nil && errors.Is(err, engine.ErrAborted) {
		return &AbortedError{Op: string(r.Op), Completed: r.Completed}
	}
	return err
}
