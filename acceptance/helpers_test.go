package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// workspace is a scratch directory with its own fmgr state and config.
type workspace struct {
	t    *testing.T
	root string
	env  []string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	env := append(os.Environ(),
		"XDG_STATE_HOME="+filepath.Join(root, ".state"),
		"XDG_CONFIG_HOME="+filepath.Join(root, ".config"),
	)
	return &workspace{t: t, root: root, env: env}
}

// with returns a copy of w that runs fmgr with extra environment settings.
func (w *workspace) with(kv ...string) *workspace {
	cp := *w
	cp.env = append(append([]string(nil), w.env...), kv...)
	return &cp
}

func (w *workspace) path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

// runFmgr executes the fmgr binary in the workspace root and returns stdout,
// stderr, and exit code.
func (w *workspace) runFmgr(stdin string, args ...string) (string, string, int) {
	w.t.Helper()
	cmd := exec.Command(fmgrBinary, args...)
	cmd.Dir = w.root
	cmd.Env = w.env
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			w.t.Fatalf("failed to run fmgr: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runFmgrSuccess runs fmgr expecting exit code 0 and returns stdout.
func (w *workspace) runFmgrSuccess(args ...string) string {
	w.t.Helper()
	stdout, stderr, exitCode := w.runFmgr("", args...)
	if exitCode != 0 {
		w.t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// runFmgrJSON runs fmgr with --json and decodes stdout into v.
func (w *workspace) runFmgrJSON(v interface{}, args ...string) {
	w.t.Helper()
	stdout := w.runFmgrSuccess(append([]string{"--json"}, args...)...)
	if err := json.Unmarshal([]byte(stdout), v); err != nil {
		w.t.Fatalf("failed to parse JSON: %v\noutput: %s", err, stdout)
	}
}

// writeFile creates a file at rel with content, creating parents.
func (w *workspace) writeFile(rel, content string) {
	w.t.Helper()
	p := w.path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		w.t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write file: %v", err)
	}
}

// mkdir creates the directory rel and its parents.
func (w *workspace) mkdir(rel string) {
	w.t.Helper()
	if err := os.MkdirAll(w.path(rel), 0o755); err != nil {
		w.t.Fatalf("failed to create dir: %v", err)
	}
}

// readFile reads a file and returns its content.
func (w *workspace) readFile(rel string) string {
	w.t.Helper()
	data, err := os.ReadFile(w.path(rel))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", rel, err)
	}
	return string(data)
}

// fileExists checks whether an entry exists at rel without following links.
func (w *workspace) fileExists(rel string) bool {
	_, err := os.Lstat(w.path(rel))
	return err == nil
}

// report mirrors the JSON report printed by copy, move, delete and paste.
type report struct {
	ID        string `json:"id"`
	Op        string `json:"op"`
	Completed int    `json:"completed"`
	Skipped   int    `json:"skipped"`
	Bytes     int64  `json:"bytes"`
	Aborted   bool   `json:"aborted"`
	Items     []struct {
		Path    string `json:"path"`
		Target  string `json:"target"`
		Outcome string `json:"outcome"`
	} `json:"items"`
}
