// Package engine implements the recursive delete, copy and move walks and the
// prompt-driven failure protocol they share.
package engine

import (
	"context"
	"io"
	"io/fs"

	"github.com/eykd/fmgr-go/internal/domain"
)

// Filesystem abstracts the host filesystem primitives the walks consume.
// Every error returned should be a *domain.FSError so the walk can pick a
// fallback path.
type Filesystem interface {
	ReadDir(path string) ([]domain.Entry, error)
	Lstat(path string) (domain.Entry, error)
	RemoveFile(path string) error
	RemoveDir(path string) error
	MakeDir(path string, perm fs.FileMode) error
	Chmod(path string, perm fs.FileMode) error
	CreateFile(path string) error
	CopyFile(src, dst string, overwrite bool) error
	Rename(src, dst string, replace bool) error
	OpenRead(path string) (io.ReadCloser, error)
	OpenWrite(path string, overwrite bool) (io.WriteCloser, error)
	SameVolume(a, b string) (bool, error)
}

// Prompter resolves a failure into a Decision. Prompt must not return until
// a decision has been made; the walk is blocked meanwhile.
type Prompter interface {
	Prompt(ctx context.Context, c domain.Conflict) domain.Decision
}

// Observer receives progress and outcome signals.
type Observer interface {
	Finished(ev domain.Event)
	Prompted(c domain.Conflict, d domain.Decision)
}

// Locker abstracts advisory lock acquisition for mutating batches.
type Locker interface {
	TryLock(ctx context.Context) error
	Unlock() error
}

// Logger is the structured logging surface the engine writes to.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

// Observers fans signals out to several observers in order.
type Observers []Observer

// Finished forwards ev to every observer.
func (o Observers) Finished(ev domain.Event) {
	for _, obs := range o {
		obs.Finished(ev)
	}
}

// Prompted forwards the decision to every observer.
func (o Observers) Prompted(c domain.Conflict, d domain.Decision) {
	for _, obs := range o {
		obs.Prompted(c, d)
	}
}

type nopLocker struct{}

func (nopLocker) TryLock(context.Context) error { return nil }
func (nopLocker) Unlock() error                 { return nil }

type nopLogger struct{}

func (nopLogger) Debugw(string, ...interface{}) {}
func (nopLogger) Infow(string, ...interface{})  {}
func (nopLogger) Warnw(string, ...interface{})  {}
