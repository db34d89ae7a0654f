package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eykd/fmgr-go/internal/clipboard"
	"github.com/eykd/fmgr-go/internal/domain"
	"github.com/eykd/fmgr-go/internal/engine"
	"github.com/eykd/fmgr-go/internal/journal"
	"github.com/eykd/fmgr-go/internal/selection"
)

// Runtime implements every command runner. The session behind it is opened
// on first use, after the global flags have been parsed.
type Runtime struct {
	open func(sessionOptions) (*session, error)
	term *terminal
	sess *session
}

// NewRuntime returns a Runtime that opens the real session.
func NewRuntime() *Runtime {
	return &Runtime{open: openSession}
}

func (r *Runtime) bind(in io.Reader, out io.Writer) {
	r.term = newTerminal(in, out)
}

func (r *Runtime) terminal() *terminal {
	if r.term == nil {
		r.term = newTerminal(os.Stdin, os.Stderr)
	}
	return r.term
}

func (r *Runtime) session() (*session, error) {
	if r.sess != nil {
		return r.sess, nil
	}
	s, err := r.open(sessionOptions{
		ConfigPath: GetConfigPath(),
		Verbose:    GetVerbose(),
		OnConflict: GetOnConflict(),
		Prompter: engine.PrompterFunc(func(ctx context.Context, c domain.Conflict) domain.Decision {
			return r.terminal().Prompt(ctx, c)
		}),
	})
	if err != nil {
		return nil, err
	}
	r.sess = s
	return s, nil
}

// Close releases the session, if one was opened.
func (r *Runtime) Close() error {
	if r.sess == nil {
		return nil
	}
	err := r.sess.Close()
	r.sess = nil
	return err
}

// batch runs one engine batch and records its duration.
func (r *Runtime) batch(run func(s *session) (*engine.Report, error)) (*engine.Report, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	report, err := run(s)
	if report != nil {
		s.metrics.BatchDone(report.Op, report.Aborted, time.Since(start), time.Now())
	}
	return report, err
}

// --- ListRunner ---

func (r *Runtime) List(ctx context.Context, dir string) ([]domain.Entry, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	return s.svc.List(ctx, dir)
}

// --- DeleteRunner ---

func (r *Runtime) Expand(patterns []string) ([]string, error) {
	return selection.Paths(patterns)
}

func (r *Runtime) Summarize(ctx context.Context, paths []string) (selection.Summary, error) {
	return selection.Summarize(ctx, paths)
}

func (r *Runtime) Confirm(ctx context.Context, question string) (bool, error) {
	return r.terminal().Confirm(ctx, question)
}

func (r *Runtime) Delete(ctx context.Context, paths []string) (*engine.Report, error) {
	return r.batch(func(s *session) (*engine.Report, error) {
		return s.svc.DeleteSelection(ctx, paths)
	})
}

// --- CopyRunner ---

func (r *Runtime) Names(dir string, patterns []string) ([]string, error) {
	return selection.Names(dir, patterns)
}

func (r *Runtime) Copy(ctx context.Context, sourceDir, destDir string, names []string, move bool) (*engine.Report, error) {
	return r.batch(func(s *session) (*engine.Report, error) {
		return s.svc.CopySelection(ctx, sourceDir, destDir, names, move)
	})
}

// --- ClipRunner ---

func (r *Runtime) Capture(sourceDir string, names []string, move bool) (clipboard.Clip, error) {
	s, err := r.session()
	if err != nil {
		return clipboard.Clip{}, err
	}
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return clipboard.Clip{}, fmt.Errorf("resolving %s: %w", sourceDir, err)
	}
	if err := s.clip.Save(domain.NewManifest(abs, names, move)); err != nil {
		return clipboard.Clip{}, err
	}
	return s.clip.Show()
}

func (r *Runtime) Show() (clipboard.Clip, error) {
	s, err := r.session()
	if err != nil {
		return clipboard.Clip{}, err
	}
	return s.clip.Show()
}

func (r *Runtime) Clear() error {
	s, err := r.session()
	if err != nil {
		return err
	}
	return s.clip.Clear()
}

// --- PasteRunner ---

// Paste carries out the clipboard into destDir. The clipboard is emptied
// once the batch has run, whatever its outcome.
func (r *Runtime) Paste(ctx context.Context, destDir string) (*engine.Report, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	clip, err := s.clip.Show()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", destDir, err)
	}

	report, err := r.batch(func(s *session) (*engine.Report, error) {
		return s.svc.Paste(ctx, clip.Manifest.To(abs))
	})
	if report != nil {
		if clearErr := s.clip.Clear(); clearErr != nil && err == nil {
			err = clearErr
		}
	}
	return report, err
}

// --- MakeDirRunner, CreateFileRunner, RenameRunner ---

func (r *Runtime) MakeDir(ctx context.Context, path string) (*engine.Report, error) {
	return r.batch(func(s *session) (*engine.Report, error) {
		return s.svc.MakeDir(ctx, path)
	})
}

func (r *Runtime) CreateFile(ctx context.Context, path string) (*engine.Report, error) {
	return r.batch(func(s *session) (*engine.Report, error) {
		return s.svc.CreateFile(ctx, path)
	})
}

func (r *Runtime) Rename(ctx context.Context, from, to string) (*engine.Report, error) {
	return r.batch(func(s *session) (*engine.Report, error) {
		return s.svc.Rename(ctx, from, to)
	})
}

// --- HistoryRunner ---

func (r *Runtime) Recent(limit int) ([]journal.Record, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	return s.journal.Recent(limit)
}

func (r *Runtime) Batch(id string) ([]journal.Record, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	return s.journal.Batch(id)
}

func (r *Runtime) Decisions(batch string) ([]journal.Decision, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	return s.journal.Decisions(batch)
}
