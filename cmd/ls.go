package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/domain"
	"github.com/eykd/fmgr-go/internal/selection"
)

// ListRunner defines the interface for listing a directory.
type ListRunner interface {
	List(ctx context.Context, dir string) ([]domain.Entry, error)
}

// listEntry is the JSON form of one directory entry.
type listEntry struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Size    int64     `json:"size"`
	Mode    string    `json:"mode"`
	ModTime time.Time `json:"mod_time"`
}

func entryType(e domain.Entry) string {
	switch {
	case e.IsDir():
		return "dir"
	case e.IsSymlink():
		return "symlink"
	case e.Mode.IsRegular():
		return "file"
	}
	return "other"
}

func entrySuffix(e domain.Entry) string {
	switch {
	case e.IsDir():
		return "/"
	case e.IsSymlink():
		return "@"
	}
	return ""
}

// NewLsCmd creates the ls command with the given runner.
func NewLsCmd(runner ListRunner) *cobra.Command {
	return &cobra.Command{
		Use:          "ls [dir]",
		Short:        "List a directory, directories first",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			entries, err := runner.List(cmd.Context(), dir)
			if err != nil {
				return err
			}

			if GetJSON() {
				out := make([]listEntry, len(entries))
				for i, e := range entries {
					out[i] = listEntry{
						Name:    e.Name,
						Type:    entryType(e),
						Size:    e.Size,
						Mode:    e.Mode.String(),
						ModTime: e.ModTime,
					}
				}
				writeJSON(cmd.OutOrStdout(), out)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %10s %s %s%s\n",
					e.Mode.String(),
					selection.FormatBytes(e.Size),
					e.ModTime.Format("2006-01-02 15:04"),
					e.Name,
					entrySuffix(e),
				)
			}
			return nil
		},
	}
}
