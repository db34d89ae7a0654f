package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/eykd/fmgr-go/internal/domain"
)

type promptStyles struct {
	warning lipgloss.Style
	danger  lipgloss.Style
	path    lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
}

var ui = promptStyles{
	warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	path:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
}

var answers = map[string]domain.Decision{
	"c": domain.Cancel, "cancel": domain.Cancel,
	"r": domain.Retry, "retry": domain.Retry,
	"n": domain.Continue, "continue": domain.Continue,
	"s": domain.Continue, "skip": domain.Continue,
}

type lineResult struct {
	line string
	err  error
}

// terminal asks questions on a line-oriented input. Input is read on a
// helper goroutine so a cancelled context can interrupt a pending question.
type terminal struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan lineResult
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan lineResult),
	}
}

func (t *terminal) pump() {
	for {
		line, err := t.in.ReadString('\n')
		if line != "" {
			t.lines <- lineResult{line: strings.TrimSpace(line)}
		}
		if err != nil {
			t.lines <- lineResult{err: err}
			close(t.lines)
			return
		}
	}
}

func (t *terminal) readLine(ctx context.Context) (string, error) {
	t.once.Do(func() { go t.pump() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

// Prompt shows the failure and waits for c, r or n. End of input and a
// cancelled context both answer Cancel.
func (t *terminal) Prompt(ctx context.Context, c domain.Conflict) domain.Decision {
	fmt.Fprintln(t.out, t.render(c))
	for {
		fmt.Fprint(t.out, ui.accent.Render("[c]ancel  [r]etry  co[n]tinue? "))
		line, err := t.readLine(ctx)
		if err != nil {
			fmt.Fprintln(t.out)
			return domain.Cancel
		}
		if d, ok := answers[strings.ToLower(line)]; ok {
			return d
		}
		if line != "" {
			fmt.Fprintln(t.out, ui.muted.Render(fmt.Sprintf("unrecognised answer %q", line)))
		}
	}
}

func (t *terminal) render(c domain.Conflict) string {
	label := ui.warning.Render("Warning")
	if c.Severity == domain.SeverityError {
		label = ui.danger.Render("Error")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: could not %s %s\n", label, c.Op, ui.path.Render(c.Path))
	if c.Err != nil {
		fmt.Fprintf(&b, "  %s\n", c.Err.Error())
	}
	b.WriteString("  " + ui.muted.Render("Retry will "+retryAction(c.Hint)+"."))
	return b.String()
}

func retryAction(h domain.Hint) string {
	switch h {
	case domain.HintOverwrite:
		return "overwrite the existing destination"
	case domain.HintIgnoreAttributes:
		return "copy the contents without file attributes"
	case domain.HintOverwriteIgnoreAttributes:
		return "overwrite the destination and copy the contents without file attributes"
	}
	return "try the same step again"
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (t *terminal) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprint(t.out, question+" [y/N] ")
	line, err := t.readLine(ctx)
	if err == io.EOF {
		fmt.Fprintln(t.out)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
