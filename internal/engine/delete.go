package engine

import (
	"context"

	"github.com/eykd/fmgr-go/internal/domain"
)

// deleteTree removes the subtree at w.src. Children are removed before their
// directory; a Cancel anywhere stops the walk without further mutations.
func (w *walk) deleteTree(ctx context.Context) domain.Outcome {
	path := w.src.String()

	var entry domain.Entry
	gone := false
	o, err := w.attempt(ctx, domain.OpDelete, path, domain.HintRetry, func() error {
		var err error
		entry, err = w.fs.Lstat(path)
		if domain.KindOf(err) == domain.KindNotFound {
			gone = true
			return nil
		}
		return err
	})
	if o != domain.OutcomeDone {
		w.settle(domain.Event{Op: domain.OpDelete, Path: path, Outcome: o, Err: err})
		return o
	}
	if gone {
		return domain.OutcomeDone
	}

	if !entry.IsDir() {
		o, err = w.attempt(ctx, domain.OpDelete, path, domain.HintRetry, func() error {
			return ignoreNotFound(w.fs.RemoveFile(path))
		})
		w.settle(domain.Event{Op: domain.OpDelete, Path: path, Outcome: o, Bytes: sizeIf(o, entry), Err: err})
		return o
	}

	var children []domain.Entry
	o, err = w.attempt(ctx, domain.OpDelete, path, domain.HintRetry, func() error {
		var err error
		children, err = w.fs.ReadDir(path)
		return err
	})
	if o != domain.OutcomeDone {
		w.settle(domain.Event{Op: domain.OpDelete, Path: path, Outcome: o, IsDir: true, Err: err})
		return o
	}

	for _, child := range children {
		if domain.IsSelfOrParent(child.Name) {
			continue
		}
		w.src.Push(child.Name)
		o := w.deleteTree(ctx)
		w.src.Pop()
		if o == domain.OutcomeAborted {
			return o
		}
	}

	o, err = w.attempt(ctx, domain.OpDelete, path, domain.HintRetry, func() error {
		return ignoreNotFound(w.fs.RemoveDir(path))
	})
	w.settle(domain.Event{Op: domain.OpDelete, Path: path, Outcome: o, IsDir: true, Err: err})
	return o
}

// ignoreNotFound treats an already-missing path as removed.
func ignoreNotFound(err error) error {
	if domain.KindOf(err) == domain.KindNotFound {
		return nil
	}
	return err
}

func sizeIf(o domain.Outcome, e domain.Entry) int64 {
	if o != domain.OutcomeDone || e.IsDir() {
		return 0
	}
	return e.Size
}
