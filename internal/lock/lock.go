// Package lock keeps a single file operation batch running at a time.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyLocked is returned when another fmgr process is mid-batch.
var ErrAlreadyLocked = errors.New("another fmgr operation is already running")

// Flocker is the part of flock.Flock the batch lock needs.
type Flocker interface {
	TryLock() (bool, error)
	Unlock() error
}

// Lock is a fail-fast advisory lock held for the duration of one batch.
type Lock struct {
	flocker Flocker
	held    bool
}

// New wraps f.
func New(f Flocker) *Lock {
	return &Lock{flocker: f}
}

// NewFromPath returns a Lock backed by the file at path, creating its
// directory if needed.
func NewFromPath(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	return New(flock.New(path)), nil
}

// TryLock acquires the lock without waiting. It fails with ErrAlreadyLocked
// when another process, or this Lock itself, already holds it.
func (l *Lock) TryLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.held {
		return ErrAlreadyLocked
	}

	ok, err := l.flocker.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	l.held = true
	return nil
}

// Unlock releases the lock. Releasing a lock that is not held does nothing.
func (l *Lock) Unlock() error {
	if !l.held {
		return nil
	}
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	l.held = false
	return nil
}
