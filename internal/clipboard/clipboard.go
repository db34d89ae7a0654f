// Package clipboard persists the copy/cut manifest between fmgr invocations.
package clipboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eykd/fmgr-go/internal/domain"
)

const version = 1

// ErrEmpty is returned when nothing has been copied or cut.
var ErrEmpty = errors.New("clipboard is empty")

// Clip is a stored manifest with the time it was captured.
type Clip struct {
	Version    int             `yaml:"version" json:"-"`
	CapturedAt time.Time       `yaml:"captured_at" json:"captured_at"`
	Manifest   domain.Manifest `yaml:",inline" json:"manifest"`
}

// Store keeps one Clip in a YAML file.
type Store struct {
	path string
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the capture timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store backed by path.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save replaces the stored manifest. The file is written atomically.
func (s *Store) Save(m domain.Manifest) error {
	if m.Empty() {
		return fmt.Errorf("saving clipboard: %w", ErrEmpty)
	}
	clip := Clip{Version: version, CapturedAt: s.now().UTC(), Manifest: domain.NewManifest(m.SourceDir, m.Names, m.Move)}
	data, err := yaml.Marshal(&clip)
	if err != nil {
		return fmt.Errorf("encoding clipboard: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating clipboard directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".clipboard-*")
	if err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing clipboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Show returns the stored clip without consuming it.
func (s *Store) Show() (Clip, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Clip{}, ErrEmpty
	}
	if err != nil {
		return Clip{}, fmt.Errorf("reading clipboard: %w", err)
	}

	var clip Clip
	if err := yaml.Unmarshal(data, &clip); err != nil {
		return Clip{}, fmt.Errorf("parsing clipboard %s: %w", s.path, err)
	}
	if clip.Version != version {
		return Clip{}, fmt.Errorf("clipboard %s: unsupported version %d", s.path, clip.Version)
	}
	if clip.Manifest.Empty() {
		return Clip{}, ErrEmpty
	}
	return clip, nil
}

// Clear consumes the stored clip. Clearing an empty clipboard is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing clipboard: %w", err)
	}
	return nil
}
