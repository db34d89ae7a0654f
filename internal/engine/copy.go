package engine

import (
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/eykd/fmgr-go/internal/domain"
)

// copyTree duplicates the subtree at w.src under w.dst. Directories are
// created before their children are copied and get the source permissions
// back once their children are in place.
func (w *walk) copyTree(ctx context.Context) domain.Outcome {
	src, dst := w.src.String(), w.dst.String()

	var entry domain.Entry
	o, err := w.attempt(ctx, domain.OpCopy, src, domain.HintRetry, func() error {
		var err error
		entry, err = w.fs.Lstat(src)
		return err
	})
	if o != domain.OutcomeDone {
		w.settle(domain.Event{Op: domain.OpCopy, Path: src, Target: dst, Outcome: o, Err: err})
		return o
	}

	if !entry.IsDir() {
		o, err = w.copyFile(ctx, src, dst)
		w.settle(domain.Event{Op: domain.OpCopy, Path: src, Target: dst, Outcome: o, Bytes: sizeIf(o, entry), Err: err})
		return o
	}

	created := false
	o, err = w.attempt(ctx, domain.OpCopy, dst, domain.HintRetry, func() error {
		err := w.fs.MakeDir(dst, dirPerm(entry.Mode))
		if domain.KindOf(err) == domain.KindAlreadyExists {
			return nil
		}
		created = err == nil
		return err
	})
	w.settle(domain.Event{Op: domain.OpCopy, Path: src, Target: dst, Outcome: o, IsDir: true, Err: err})
	if o != domain.OutcomeDone {
		return o
	}

	var children []domain.Entry
	o, err = w.attempt(ctx, domain.OpCopy, src, domain.HintRetry, func() error {
		var err error
		children, err = w.fs.ReadDir(src)
		return err
	})
	if o != domain.OutcomeDone {
		w.settle(domain.Event{Op: domain.OpCopy, Path: src, Target: dst, Outcome: o, IsDir: true, Err: err})
		return o
	}

	for _, child := range children {
		if domain.IsSelfOrParent(child.Name) {
			continue
		}
		w.src.Push(child.Name)
		w.dst.Push(child.Name)
		o := w.copyTree(ctx)
		w.dst.Pop()
		w.src.Pop()
		if o == domain.OutcomeAborted {
			return o
		}
	}

	if perm := entry.Mode.Perm(); created && perm != dirPerm(entry.Mode) {
		o, err = w.attempt(ctx, domain.OpCopy, dst, domain.HintRetry, func() error {
			return w.fs.Chmod(dst, perm)
		})
		if o != domain.OutcomeDone {
			w.settle(domain.Event{Op: domain.OpCopy, Path: src, Target: dst, Outcome: o, IsDir: true, Err: err})
			return o
		}
	}
	return domain.OutcomeDone
}

// copyFile copies one non-directory entry. The fast attribute-preserving copy
// is tried first; an existing destination asks for overwrite, and any other
// failure offers the manual byte copy. Overwrite intent, once given, is kept
// for every later attempt on this file.
func (w *walk) copyFile(ctx context.Context, src, dst string) (domain.Outcome, error) {
	err := w.fs.CopyFile(src, dst, false)
	if err == nil {
		return domain.OutcomeDone, nil
	}

	overwrite := false
	if domain.KindOf(err) == domain.KindAlreadyExists {
		if !w.overwrite {
			switch w.ask(ctx, domain.OpCopy, dst, err, domain.HintOverwrite, w.severity) {
			case domain.Cancel:
				return domain.OutcomeAborted, err
			case domain.Continue:
				return domain.OutcomeSkipped, err
			}
		}
		overwrite = true
		if err = w.fs.CopyFile(src, dst, true); err == nil {
			return domain.OutcomeDone, nil
		}
	}

	target, hint := src, domain.HintIgnoreAttributes
	if overwrite {
		target, hint = dst, domain.HintOverwriteIgnoreAttributes
	}
	for {
		switch w.ask(ctx, domain.OpCopy, target, err, hint, w.severity) {
		case domain.Cancel:
			return domain.OutcomeAborted, err
		case domain.Continue:
			return domain.OutcomeSkipped, err
		}
		if err = w.manualCopy(src, dst, overwrite); err == nil {
			return domain.OutcomeDone, nil
		}
		if !overwrite && domain.KindOf(err) == domain.KindAlreadyExists {
			overwrite = true
			target, hint = dst, domain.HintOverwriteIgnoreAttributes
		}
	}
}

// dirPerm keeps the source permissions but guarantees the owner can populate
// the new directory.
func dirPerm(mode fs.FileMode) fs.FileMode {
	return mode.Perm() | 0o700
}

// checkOverlap rejects destinations that are the source itself or inside it.
func checkOverlap(op domain.Op, src, dst string) error {
	if src == dst {
		return &domain.FSError{Op: string(op), Path: dst, Err: domain.ErrSameFile}
	}
	if strings.HasPrefix(dst, strings.TrimSuffix(src, string(os.PathSeparator))+string(os.PathSeparator)) {
		return &domain.FSError{Op: string(op), Path: dst, Err: domain.ErrNestedDestination}
	}
	return nil
}
