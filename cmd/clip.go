package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/clipboard"
)

// ClipRunner defines the interface for the persisted copy/cut clipboard.
type ClipRunner interface {
	Names(dir string, patterns []string) ([]string, error)
	Capture(sourceDir string, names []string, move bool) (clipboard.Clip, error)
	Show() (clipboard.Clip, error)
	Clear() error
}

// NewClipCmd creates the clip command group with the given runner.
func NewClipCmd(runner ClipRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Capture entries for a later paste",
	}
	cmd.AddCommand(
		newClipCaptureCmd(runner, false),
		newClipCaptureCmd(runner, true),
		newClipShowCmd(runner),
		newClipClearCmd(runner),
	)
	return cmd
}

func newClipCaptureCmd(runner ClipRunner, move bool) *cobra.Command {
	var from string

	use, short := "copy", "Remember entries to be copied by the next paste"
	if move {
		use, short = "cut", "Remember entries to be moved by the next paste"
	}

	cmd := &cobra.Command{
		Use:          use + " <name|glob>...",
		Short:        short,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := runner.Names(from, args)
			if err != nil {
				return &ContextError{Op: "clip " + use, Path: from, Err: err}
			}
			clip, err := runner.Capture(from, names, move)
			if err != nil {
				return err
			}
			writeClip(cmd, clip)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", ".", "Directory the names are taken from")
	return cmd
}

func newClipShowCmd(runner ClipRunner) *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Show what the next paste will do",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			clip, err := runner.Show()
			if errors.Is(err, clipboard.ErrEmpty) {
				if GetJSON() {
					writeJSON(cmd.OutOrStdout(), nil)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Clipboard is empty")
				}
				return nil
			}
			if err != nil {
				return err
			}
			writeClip(cmd, clip)
			return nil
		},
	}
}

func newClipClearCmd(runner ClipRunner) *cobra.Command {
	return &cobra.Command{
		Use:          "clear",
		Short:        "Forget the captured entries",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Clear()
		},
	}
}

func writeClip(cmd *cobra.Command, clip clipboard.Clip) {
	if GetJSON() {
		writeJSON(cmd.OutOrStdout(), clip)
		return
	}
	verb := "copy"
	if clip.Manifest.Move {
		verb = "move"
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %d item(s) from %s\n", verb, len(clip.Manifest.Names), clip.Manifest.SourceDir)
	for _, name := range clip.Manifest.Names {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
