package engine

import (
	"context"

	"github.com/eykd/fmgr-go/internal/domain"
)

// walk is the state of one batch. Its path stacks and chunk buffer are owned
// exclusively by the batch.
type walk struct {
	fs       Filesystem
	prompter Prompter
	observer Observer
	log      Logger

	src, dst *domain.PathStack
	buf      []byte
	report   *Report
	severity domain.Severity

	// overwrite answers every AlreadyExists file conflict with Retry while
	// a directory is merged into an existing one.
	overwrite bool
}

// attempt drives fn through the attempt/prompt cycle:
//
//	Attempting --ok--> Done
//	Attempting --fail--> Prompting
//	Prompting --Cancel--> Aborted, --Continue--> Skipped, --Retry--> Attempting
//
// The last failure is returned alongside a non-Done outcome.
func (w *walk) attempt(ctx context.Context, op domain.Op, path string, hint domain.Hint, fn func() error) (domain.Outcome, error) {
	for {
		err := fn()
		if err == nil {
			return domain.OutcomeDone, nil
		}
		switch w.ask(ctx, op, path, err, hint, w.severity) {
		case domain.Cancel:
			return domain.OutcomeAborted, err
		case domain.Continue:
			return domain.OutcomeSkipped, err
		}
	}
}

// refuse reports a failure that retrying cannot fix. Anything but Cancel skips.
func (w *walk) refuse(ctx context.Context, op domain.Op, path string, err error) domain.Outcome {
	if w.ask(ctx, op, path, err, domain.HintRetry, domain.SeverityError) == domain.Cancel {
		return domain.OutcomeAborted
	}
	return domain.OutcomeSkipped
}

func (w *walk) ask(ctx context.Context, op domain.Op, path string, err error, hint domain.Hint, sev domain.Severity) domain.Decision {
	c := domain.NewConflict(op, path, err, hint, sev)
	c.Batch = w.report.ID
	d := w.prompter.Prompt(ctx, c)
	w.log.Warnw("operation failed",
		"batch", w.report.ID,
		"op", string(op),
		"path", path,
		"kind", c.Kind.String(),
		"code", c.Code,
		"error", err.Error(),
		"decision", d.String(),
	)
	w.observer.Prompted(c, d)
	return d
}

// settle records the outcome of one mutation.
func (w *walk) settle(ev domain.Event) {
	ev.Batch = w.report.ID
	switch ev.Outcome {
	case domain.OutcomeDone:
		w.report.Completed++
		w.report.Bytes += ev.Bytes
	case domain.OutcomeSkipped:
		w.report.Skipped++
	}
	w.log.Debugw("settled",
		"batch", ev.Batch,
		"op", string(ev.Op),
		"path", ev.Path,
		"target", ev.Target,
		"outcome", string(ev.Outcome),
		"bytes", ev.Bytes,
	)
	w.observer.Finished(ev)
}

// item records the outcome of a top-level selection entry.
func (w *walk) item(path, target string, o domain.Outcome) {
	w.report.Items = append(w.report.Items, ItemResult{Path: path, Target: target, Outcome: o})
}
