package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/eykd/fmgr-go/internal/domain"
	"github.com/google/uuid"
)

// ErrAborted is returned when the user cancels a batch at a prompt.
var ErrAborted = errors.New("operation aborted")

// ErrNoDestination is returned when pasting a manifest with no destination.
var ErrNoDestination = errors.New("manifest has no destination directory")

// ItemResult is the outcome of one top-level selected item.
type ItemResult struct {
	Path    string         `json:"path"`
	Target  string         `json:"target,omitempty"`
	Outcome domain.Outcome `json:"outcome"`
}

// Report summarises a batch.
type Report struct {
	ID        string       `json:"id"`
	Op        domain.Op    `json:"op"`
	Completed int          `json:"completed"`
	Skipped   int          `json:"skipped"`
	Bytes     int64        `json:"bytes"`
	Aborted   bool         `json:"aborted"`
	Items     []ItemResult `json:"items"`
}

// Service exposes the batch operations to the shell. Batches never run
// concurrently: each one holds the advisory lock for its whole duration.
type Service struct {
	fs        Filesystem
	prompter  Prompter
	locker    Locker
	observer  Observer
	log       Logger
	chunkSize int
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLocker sets the lock acquired around every mutating batch.
func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the structured logger.
func WithLogger(l Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithChunkSize sets the manual copy buffer size. Non-positive values keep the default.
func WithChunkSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithIDGenerator overrides batch id generation.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// NewService creates a Service over fsys that resolves failures with p.
func NewService(fsys Filesystem, p Prompter, opts ...Option) *Service {
	s := &Service{
		fs:        fsys,
		prompter:  p,
		locker:    nopLocker{},
		observer:  Observers(nil),
		log:       nopLogger{},
		chunkSize: DefaultChunkSize,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin acquires the lock and prepares the state of a new batch.
func (s *Service) begin(ctx context.Context, op domain.Op) (*walk, error) {
	if err := s.locker.TryLock(ctx); err != nil {
		return nil, err
	}
	w := &walk{
		fs:       s.fs,
		prompter: s.prompter,
		observer: s.observer,
		log:      s.log,
		buf:      make([]byte, s.chunkSize),
		report:   &Report{ID: s.newID(), Op: op},
		severity: severityFor(op),
	}
	s.log.Infow("batch started", "batch", w.report.ID, "op", string(op))
	return w, nil
}

// severityFor presents failures of single-entry commands as errors and
// failures inside a tree walk as warnings.
func severityFor(op domain.Op) domain.Severity {
	switch op {
	case domain.OpMkdir, domain.OpCreate, domain.OpRename:
		return domain.SeverityError
	}
	return domain.SeverityWarning
}

// end releases the lock and returns the batch report.
func (s *Service) end(w *walk, aborted bool) (*Report, error) {
	if err := s.locker.Unlock(); err != nil {
		s.log.Warnw("releasing lock", "error", err.Error())
	}
	r := w.report
	r.Aborted = aborted
	s.log.Infow("batch finished",
		"batch", r.ID,
		"op", string(r.Op),
		"completed", r.Completed,
		"skipped", r.Skipped,
		"bytes", r.Bytes,
		"aborted", r.Aborted,
	)
	if aborted {
		return r, ErrAborted
	}
	return r, nil
}

// DeleteSelection removes every path and its subtree, in order. It stops at
// the first Cancel.
func (s *Service) DeleteSelection(ctx context.Context, paths []string) (*Report, error) {
	w, err := s.begin(ctx, domain.OpDelete)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		p = filepath.Clean(p)
		w.src = domain.NewPathStack(p)
		o := w.deleteTree(ctx)
		w.item(p, "", o)
		if o == domain.OutcomeAborted {
			return s.end(w, true)
		}
	}
	return s.end(w, false)
}

// CopySelection copies (or, with isMove, moves) names from sourceDir into destDir.
func (s *Service) CopySelection(ctx context.Context, sourceDir, destDir string, names []string, isMove bool) (*Report, error) {
	return s.Paste(ctx, domain.NewManifest(sourceDir, names, isMove).To(destDir))
}

// Paste carries out a bound manifest.
func (s *Service) Paste(ctx context.Context, m domain.Manifest) (*Report, error) {
	if m.DestDir == "" {
		return nil, ErrNoDestination
	}
	op := domain.OpCopy
	if m.Move {
		op = domain.OpMove
	}

	w, err := s.begin(ctx, op)
	if err != nil {
		return nil, err
	}
	srcDir, dstDir := filepath.Clean(m.SourceDir), filepath.Clean(m.DestDir)
	for _, name := range m.Names {
		if domain.IsSelfOrParent(name) {
			continue
		}
		w.src = domain.NewPathStack(srcDir)
		w.src.Push(name)
		w.dst = domain.NewPathStack(dstDir)
		w.dst.Push(name)
		src, dst := w.src.String(), w.dst.String()

		var o domain.Outcome
		overlap := checkOverlap(op, src, dst)
		switch {
		case overlap != nil:
			o = w.refuse(ctx, op, dst, overlap)
			w.settle(domain.Event{Op: op, Path: src, Target: dst, Outcome: o, Err: overlap})
		case m.Move:
			o = w.moveItem(ctx, domain.OpMove)
		default:
			o = w.copyTree(ctx)
		}
		w.item(src, dst, o)
		if o == domain.OutcomeAborted {
			return s.end(w, true)
		}
	}
	return s.end(w, false)
}

// MakeDir creates a single directory.
func (s *Service) MakeDir(ctx context.Context, path string) (*Report, error) {
	return s.single(ctx, domain.OpMkdir, filepath.Clean(path), func(p string) error {
		return s.fs.MakeDir(p, 0o755)
	})
}

// CreateFile creates a new empty file; an existing file is a failure.
func (s *Service) CreateFile(ctx context.Context, path string) (*Report, error) {
	return s.single(ctx, domain.OpCreate, filepath.Clean(path), s.fs.CreateFile)
}

// Rename renames from to to without replacing an existing entry unless the
// user asks for it at the prompt.
func (s *Service) Rename(ctx context.Context, from, to string) (*Report, error) {
	w, err := s.begin(ctx, domain.OpRename)
	if err != nil {
		return nil, err
	}
	from, to = filepath.Clean(from), filepath.Clean(to)
	w.src = domain.NewPathStack(from)
	w.dst = domain.NewPathStack(to)

	var o domain.Outcome
	if err := checkOverlap(domain.OpRename, from, to); err != nil {
		o = w.refuse(ctx, domain.OpRename, to, err)
		w.settle(domain.Event{Op: domain.OpRename, Path: from, Target: to, Outcome: o, Err: err})
	} else {
		o = w.moveItem(ctx, domain.OpRename)
	}
	w.item(from, to, o)
	return s.end(w, o == domain.OutcomeAborted)
}

func (s *Service) single(ctx context.Context, op domain.Op, path string, fn func(string) error) (*Report, error) {
	w, err := s.begin(ctx, op)
	if err != nil {
		return nil, err
	}
	o, lastErr := w.attempt(ctx, op, path, domain.HintRetry, func() error { return fn(path) })
	w.settle(domain.Event{Op: op, Path: path, Outcome: o, IsDir: op == domain.OpMkdir, Err: lastErr})
	w.item(path, "", o)
	return s.end(w, o == domain.OutcomeAborted)
}

// List returns the entries of dir, directories first, then by name.
func (s *Service) List(_ context.Context, dir string) ([]domain.Entry, error) {
	entries, err := s.fs.ReadDir(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	out := entries[:0]
	for _, e := range entries {
		if !domain.IsSelfOrParent(e.Name) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir() != out[j].IsDir() {
			return out[i].IsDir()
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
