package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/engine"
	"github.com/eykd/fmgr-go/internal/names"
)

// MakeDirRunner defines the interface for creating a directory.
type MakeDirRunner interface {
	MakeDir(ctx context.Context, path string) (*engine.Report, error)
}

// CreateFileRunner defines the interface for creating an empty file.
type CreateFileRunner interface {
	CreateFile(ctx context.Context, path string) (*engine.Report, error)
}

// NewMkdirCmd creates the mkdir command with the given runner.
func NewMkdirCmd(runner MakeDirRunner) *cobra.Command {
	return &cobra.Command{
		Use:          "mkdir <path>",
		Short:        "Create a directory",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := normalizeLeaf(args[0])
			if err != nil {
				return &ContextError{Op: "mkdir", Err: err}
			}
			report, err := runner.MakeDir(cmd.Context(), path)
			return finishBatch(cmd, report, err)
		},
	}
}

// NewTouchCmd creates the touch command with the given runner.
func NewTouchCmd(runner CreateFileRunner) *cobra.Command {
	return &cobra.Command{
		Use:          "touch <path>",
		Short:        "Create a new empty file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := normalizeLeaf(args[0])
			if err != nil {
				return &ContextError{Op: "touch", Err: err}
			}
			report, err := runner.CreateFile(cmd.Context(), path)
			return finishBatch(cmd, report, err)
		},
	}
}

// normalizeLeaf validates and normalises the last element of path, the name
// of the entry about to be created.
func normalizeLeaf(path string) (string, error) {
	path = filepath.Clean(path)
	name, err := names.Normalize(filepath.Base(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), name), nil
}
