package engine

import (
	"context"
	"path/filepath"

	"github.com/eykd/fmgr-go/internal/domain"
)

// moveItem moves w.src to w.dst. Within one volume it renames; across
// volumes it copies and then deletes the source. An overwrite chosen at the
// prompt stays in force for every later retry of this item. A directory that
// cannot replace an existing, non-empty directory is merged into it.
func (w *walk) moveItem(ctx context.Context, op domain.Op) domain.Outcome {
	src, dst := w.src.String(), w.dst.String()

	if same, err := w.fs.SameVolume(src, filepath.Dir(dst)); err == nil && !same {
		return w.moveAcross(ctx)
	}

	replace := false
	for {
		err := w.fs.Rename(src, dst, replace)
		if err == nil {
			w.settle(domain.Event{Op: op, Path: src, Target: dst, Outcome: domain.OutcomeDone})
			return domain.OutcomeDone
		}

		kind := domain.KindOf(err)
		if kind == domain.KindCrossVolume {
			return w.moveAcross(ctx)
		}
		if replace && w.bothDirs(src, dst) {
			return w.mergeInto(ctx)
		}

		target, hint := src, domain.HintRetry
		if kind == domain.KindAlreadyExists && !replace {
			target, hint = dst, domain.HintOverwrite
		}
		switch w.ask(ctx, op, target, err, hint, w.severity) {
		case domain.Cancel:
			w.settle(domain.Event{Op: op, Path: src, Target: dst, Outcome: domain.OutcomeAborted, Err: err})
			return domain.OutcomeAborted
		case domain.Continue:
			w.settle(domain.Event{Op: op, Path: src, Target: dst, Outcome: domain.OutcomeSkipped, Err: err})
			return domain.OutcomeSkipped
		}
		if hint == domain.HintOverwrite {
			replace = true
		}
	}
}

// bothDirs reports whether src and dst are both directories.
func (w *walk) bothDirs(src, dst string) bool {
	s, err := w.fs.Lstat(src)
	if err != nil || !s.IsDir() {
		return false
	}
	d, err := w.fs.Lstat(dst)
	return err == nil && d.IsDir()
}

// mergeInto moves a directory into an existing one by copy and delete,
// overwriting files that exist on both sides.
func (w *walk) mergeInto(ctx context.Context) domain.Outcome {
	w.log.Debugw("merging into existing directory", "batch", w.report.ID, "path", w.src.String(), "target", w.dst.String())
	w.overwrite = true
	defer func() { w.overwrite = false }()
	return w.moveAcross(ctx)
}

// moveAcross copies the subtree and removes the source only when every part
// of it was copied.
func (w *walk) moveAcross(ctx context.Context) domain.Outcome {
	src, dst := w.src.String(), w.dst.String()
	w.log.Debugw("moving by copy", "batch", w.report.ID, "path", src, "target", dst)

	skippedBefore := w.report.Skipped
	if o := w.copyTree(ctx); o != domain.OutcomeDone {
		return o
	}
	if w.report.Skipped > skippedBefore {
		w.log.Warnw("source kept after partial copy", "batch", w.report.ID, "path", src, "skipped", w.report.Skipped-skippedBefore)
		w.settle(domain.Event{Op: domain.OpMove, Path: src, Target: dst, Outcome: domain.OutcomeSkipped})
		return domain.OutcomeSkipped
	}
	return w.deleteTree(ctx)
}
