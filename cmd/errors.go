package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/engine"
)

// ContextError adds operation and path context to an underlying error.
type ContextError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the formatted error string with context.
func (e *ContextError) Error() string {
	if e.Op != "" && e.Path != "" {
		return e.Op + ": " + e.Path + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + e.Err.Error()
	}
	if e.Path != "" {
		return e.Path + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ContextError) Unwrap() error {
	return e.Err
}

// AbortedError is returned when the user cancels an operation, either at a
// conflict prompt or by declining a confirmation.
type AbortedError struct {
	Op        string
	Completed int
}

// Error implements the error interface.
func (e *AbortedError) Error() string {
	if e.Completed == 0 {
		return e.Op + " cancelled"
	}
	return fmt.Sprintf("%s cancelled after %d completed item(s)", e.Op, e.Completed)
}

// Unwrap lets errors.Is match engine.ErrAborted.
func (e *AbortedError) Unwrap() error {
	return engine.ErrAborted
}

// ExitCode returns the exit code for a user abort (always 2).
func (e *AbortedError) ExitCode() int {
	return 2
}

// ExitCoder is implemented by errors that carry a specific process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCodeFromError returns the appropriate exit code for an error.
// nil returns 0, ExitCoder errors return their code, all others return 1.
func ExitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// FormatError formats an error with the "fmgr: " prefix and trailing newline.
func FormatError(err error) string {
	return fmt.Sprintf("fmgr: %s\n", err.Error())
}

// RunCLI executes the command with the given args and streams. It returns the
// appropriate exit code.
func RunCLI(ctx context.Context, cmd *cobra.Command, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprint(stderr, FormatError(err))
		return ExitCodeFromError(err)
	}
	return 0
}
