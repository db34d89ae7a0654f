package lock_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eykd/fmgr-go/internal/lock"
)

// mockFlocker is a test double for the Flocker interface.
type mockFlocker struct {
	tryLockResult bool
	tryLockErr    error
	unlockErr     error
	tryLockCalls  int
	unlockCalls   int
}

func (m *mockFlocker) TryLock() (bool, error) {
	m.tryLockCalls++
	return m.tryLockResult, m.tryLockErr
}

func (m *mockFlocker) Unlock() error {
	m.unlockCalls++
	return m.unlockErr
}

func TestLock_TryLock(t *testing.T) {
	errPermDenied := errors.New("permission denied")

	tests := []struct {
		name          string
		tryLockResult bool
		tryLockErr    error
		wantErr       error
	}{
		{
			name:          "succeeds when lock is available",
			tryLockResult: true,
		},
		{
			name:          "returns ErrAlreadyLocked when lock is held elsewhere",
			tryLockResult: false,
			wantErr:       lock.ErrAlreadyLocked,
		},
		{
			name:       "wraps underlying flock error",
			tryLockErr: errPermDenied,
			wantErr:    errPermDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockFlocker{tryLockResult: tt.tryLockResult, tryLockErr: tt.tryLockErr}
			l := lock.New(m)

			err := l.TryLock(context.Background())

			if m.tryLockCalls != 1 {
				t.Errorf("flocker TryLock calls = %d, want 1", m.tryLockCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLock_TryLock_HasClearMessage(t *testing.T) {
	l := lock.New(&mockFlocker{})

	err := l.TryLock(context.Background())

	want := "another fmgr operation is already running"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestLock_TryLock_CancelledContext(t *testing.T) {
	m := &mockFlocker{tryLockResult: true}
	l := lock.New(m)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.TryLock(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if m.tryLockCalls != 0 {
		t.Error("flocker consulted after cancellation")
	}
}

func TestLock_NotReentrant(t *testing.T) {
	m := &mockFlocker{tryLockResult: true}
	l := lock.New(m)

	if err := l.TryLock(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := l.TryLock(context.Background()); !errors.Is(err, lock.ErrAlreadyLocked) {
		t.Errorf("second TryLock error = %v, want ErrAlreadyLocked", err)
	}
	if m.tryLockCalls != 1 {
		t.Errorf("flocker TryLock calls = %d, want 1", m.tryLockCalls)
	}
}

func TestLock_Unlock(t *testing.T) {
	tests := []struct {
		name      string
		acquire   bool
		unlockErr error
		wantCalls int
		wantErr   bool
	}{
		{name: "releases held lock", acquire: true, wantCalls: 1},
		{name: "propagates unlock error", acquire: true, unlockErr: errors.New("unlock failed"), wantCalls: 1, wantErr: true},
		{name: "no-op when not held", acquire: false, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockFlocker{tryLockResult: true, unlockErr: tt.unlockErr}
			l := lock.New(m)
			if tt.acquire {
				if err := l.TryLock(context.Background()); err != nil {
					t.Fatal(err)
				}
			}

			err := l.Unlock()

			if m.unlockCalls != tt.wantCalls {
				t.Errorf("flocker Unlock calls = %d, want %d", m.unlockCalls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.unlockErr != nil && !errors.Is(err, tt.unlockErr) {
				t.Errorf("error should wrap %v, got %v", tt.unlockErr, err)
			}
		})
	}
}

func TestLock_RelockAfterUnlock(t *testing.T) {
	l := lock.New(&mockFlocker{tryLockResult: true})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.TryLock(ctx); err != nil {
			t.Fatalf("round %d TryLock: %v", i, err)
		}
		if err := l.Unlock(); err != nil {
			t.Fatalf("round %d Unlock: %v", i, err)
		}
	}
}

func TestNewFromPath_ExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "fmgr.lock")

	first, err := lock.NewFromPath(path)
	if err != nil {
		t.Fatalf("NewFromPath() error = %v", err)
	}
	second, err := lock.NewFromPath(path)
	if err != nil {
		t.Fatalf("NewFromPath() error = %v", err)
	}
	ctx := context.Background()

	if err := first.TryLock(ctx); err != nil {
		t.Fatalf("first TryLock: %v", err)
	}
	if err := second.TryLock(ctx); !errors.Is(err, lock.ErrAlreadyLocked) {
		t.Errorf("second TryLock error = %v, want ErrAlreadyLocked", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatal(err)
	}
	if err := second.TryLock(ctx); err != nil {
		t.Errorf("TryLock after release: %v", err)
	}
	_ = second.Unlock()
}
