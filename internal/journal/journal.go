// Package journal keeps a SQLite history of every mutation fmgr performed and
// every decision the user made.
package journal

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eykd/fmgr-go/internal/domain"
)

// Record is one settled mutation.
type Record struct {
	ID        int64     `json:"id"`
	Batch     string    `json:"batch"`
	At        time.Time `json:"at"`
	Op        string    `json:"op"`
	Path      string    `json:"path"`
	Target    string    `json:"target,omitempty"`
	Outcome   string    `json:"outcome"`
	Bytes     int64     `json:"bytes"`
	IsDir     bool      `json:"is_dir"`
	ErrorKind string    `json:"error_kind,omitempty"`
	ErrorCode int       `json:"error_code,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Decision is one answered prompt.
type Decision struct {
	ID       int64     `json:"id"`
	Batch    string    `json:"batch"`
	At       time.Time `json:"at"`
	Op       string    `json:"op"`
	Path     string    `json:"path"`
	Kind     string    `json:"kind"`
	Code     int       `json:"code"`
	Hint     string    `json:"hint"`
	Decision string    `json:"decision"`
}

// Journal records engine events into SQLite. It implements engine.Observer;
// the first write failure is kept and reported by Err.
type Journal struct {
	db  *sql.DB
	now func() time.Time

	mu  sync.Mutex
	err error
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// dsn builds a SQLite URI for path. The path is escaped so that '?', '#'
// and '%' in it are not read as URI syntax.
func dsn(path string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?_loc=auto"
}

// Open opens or creates the journal database at path.
func Open(path string, opts ...Option) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize journal (check permissions on %s): %w", path, err)
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	j := &Journal{db: db, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	if err = j.initSchema(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch TEXT NOT NULL,
		at DATETIME NOT NULL,
		op TEXT NOT NULL,
		path TEXT NOT NULL,
		target TEXT,
		outcome TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		is_dir INTEGER NOT NULL,
		error_kind TEXT,
		error_code INTEGER,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_batch ON events(batch);
	CREATE INDEX IF NOT EXISTS idx_events_at ON events(at);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch TEXT NOT NULL,
		at DATETIME NOT NULL,
		op TEXT NOT NULL,
		path TEXT NOT NULL,
		kind TEXT NOT NULL,
		code INTEGER NOT NULL,
		hint TEXT NOT NULL,
		decision TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_batch ON decisions(batch);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return nil
}

// Record inserts a settled mutation.
func (j *Journal) Record(ev domain.Event) error {
	var kind, msg string
	var code int
	if ev.Err != nil {
		kind = domain.KindOf(ev.Err).String()
		code = domain.CodeOf(ev.Err)
		msg = ev.Err.Error()
	}
	_, err := j.db.Exec(`
	INSERT INTO events (batch, at, op, path, target, outcome, bytes, is_dir, error_kind, error_code, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Batch, j.now().UTC(), string(ev.Op), ev.Path, ev.Target, string(ev.Outcome),
		ev.Bytes, ev.IsDir, kind, code, msg,
	)
	if err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

// RecordDecision inserts an answered prompt.
func (j *Journal) RecordDecision(c domain.Conflict, d domain.Decision) error {
	_, err := j.db.Exec(`
	INSERT INTO decisions (batch, at, op, path, kind, code, hint, decision)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Batch, j.now().UTC(), string(c.Op), c.Path, c.Kind.String(), c.Code, c.Hint.String(), d.String(),
	)
	if err != nil {
		return fmt.Errorf("recording decision: %w", err)
	}
	return nil
}

// Finished records ev, keeping the first failure for Err.
func (j *Journal) Finished(ev domain.Event) {
	j.keep(j.Record(ev))
}

// Prompted records the decision, keeping the first failure for Err.
func (j *Journal) Prompted(c domain.Conflict, d domain.Decision) {
	j.keep(j.RecordDecision(c, d))
}

func (j *Journal) keep(err error) {
	if err == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err == nil {
		j.err = err
	}
}

// Err returns the first failure seen while observing.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
