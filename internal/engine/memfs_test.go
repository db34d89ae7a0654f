package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/eykd/fmgr-go/internal/domain"
)

// memNode is a file or directory in memFS.
type memNode struct {
	dir  bool
	mode fs.FileMode
	data []byte
}

// memFS is an in-memory Filesystem with fault injection. Paths are absolute
// and slash separated.
type memFS struct {
	nodes   map[string]*memNode
	faults  map[string][]error
	volumes map[string]string
	short   map[string]bool
	calls   []string
	writes  map[string]int
}

func newMemFS() *memFS {
	m := &memFS{
		nodes:   map[string]*memNode{"/": {dir: true, mode: fs.ModeDir | 0o755}},
		faults:  map[string][]error{},
		volumes: map[string]string{},
		short:   map[string]bool{},
		writes:  map[string]int{},
	}
	return m
}

// dir creates directories, including parents.
func (m *memFS) dir(paths ...string) *memFS {
	for _, p := range paths {
		for q := p; q != "/"; q = filepath.Dir(q) {
			if _, ok := m.nodes[q]; !ok {
				m.nodes[q] = &memNode{dir: true, mode: fs.ModeDir | 0o755}
			}
		}
	}
	return m
}

// file creates a regular file and its parent directories.
func (m *memFS) file(path, data string) *memFS {
	m.dir(filepath.Dir(path))
	m.nodes[path] = &memNode{mode: 0o644, data: []byte(data)}
	return m
}

// fail queues errors returned by the next calls of op on path.
func (m *memFS) fail(op, path string, errs ...error) *memFS {
	key := op + " " + path
	m.faults[key] = append(m.faults[key], errs...)
	return m
}

// volume places every path under prefix on a named volume.
func (m *memFS) volume(prefix, name string) *memFS {
	m.volumes[prefix] = name
	return m
}

func (m *memFS) exists(path string) bool {
	_, ok := m.nodes[path]
	return ok
}

func (m *memFS) content(path string) string {
	n, ok := m.nodes[path]
	if !ok {
		return ""
	}
	return string(n.data)
}

func (m *memFS) called(call string) int {
	for i, c := range m.calls {
		if c == call {
			return i
		}
	}
	return -1
}

func (m *memFS) enter(op, path string, extra ...string) error {
	call := op + " " + path
	if len(extra) > 0 {
		call += " " + strings.Join(extra, " ")
	}
	m.calls = append(m.calls, call)
	key := op + " " + path
	if q := m.faults[key]; len(q) > 0 {
		m.faults[key] = q[1:]
		return q[0]
	}
	return nil
}

func fsErr(op, path string, kind domain.ErrorKind, errno syscall.Errno) *domain.FSError {
	return &domain.FSError{Op: op, Path: path, Kind: kind, Code: int(errno), Err: errno}
}

func (m *memFS) children(path string) []string {
	var out []string
	for p := range m.nodes {
		if p != "/" && filepath.Dir(p) == path {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *memFS) entry(path string) domain.Entry {
	n := m.nodes[path]
	return domain.Entry{Name: filepath.Base(path), Mode: n.mode, Size: int64(len(n.data))}
}

func (m *memFS) ReadDir(path string) ([]domain.Entry, error) {
	if err := m.enter("readdir", path); err != nil {
		return nil, err
	}
	n, ok := m.nodes[path]
	if !ok {
		return nil, fsErr("readdir", path, domain.KindNotFound, syscall.ENOENT)
	}
	if !n.dir {
		return nil, fsErr("readdir", path, domain.KindUnknown, syscall.ENOTDIR)
	}
	var out []domain.Entry
	for _, c := range m.children(path) {
		out = append(out, m.entry(c))
	}
	return out, nil
}

func (m *memFS) Lstat(path string) (domain.Entry, error) {
	if err := m.enter("lstat", path); err != nil {
		return domain.Entry{}, err
	}
	if !m.exists(path) {
		return domain.Entry{}, fsErr("lstat", path, domain.KindNotFound, syscall.ENOENT)
	}
	return m.entry(path), nil
}

func (m *memFS) RemoveFile(path string) error {
	if err := m.enter("unlink", path); err != nil {
		return err
	}
	n, ok := m.nodes[path]
	if !ok {
		return fsErr("unlink", path, domain.KindNotFound, syscall.ENOENT)
	}
	if n.dir {
		return fsErr("unlink", path, domain.KindUnknown, syscall.EISDIR)
	}
	delete(m.nodes, path)
	return nil
}

func (m *memFS) RemoveDir(path string) error {
	if err := m.enter("rmdir", path); err != nil {
		return err
	}
	n, ok := m.nodes[path]
	if !ok {
		return fsErr("rmdir", path, domain.KindNotFound, syscall.ENOENT)
	}
	if !n.dir {
		return fsErr("rmdir", path, domain.KindUnknown, syscall.ENOTDIR)
	}
	if len(m.children(path)) > 0 {
		return fsErr("rmdir", path, domain.KindUnknown, syscall.ENOTEMPTY)
	}
	delete(m.nodes, path)
	return nil
}

func (m *memFS) parentOK(op, path string) error {
	if p, ok := m.nodes[filepath.Dir(path)]; !ok || !p.dir {
		return fsErr(op, path, domain.KindNotFound, syscall.ENOENT)
	}
	return nil
}

func (m *memFS) MakeDir(path string, perm fs.FileMode) error {
	if err := m.enter("mkdir", path); err != nil {
		return err
	}
	if m.exists(path) {
		return fsErr("mkdir", path, domain.KindAlreadyExists, syscall.EEXIST)
	}
	if err := m.parentOK("mkdir", path); err != nil {
		return err
	}
	m.nodes[path] = &memNode{dir: true, mode: fs.ModeDir | perm}
	return nil
}

func (m *memFS) Chmod(path string, perm fs.FileMode) error {
	if err := m.enter("chmod", path, perm.String()); err != nil {
		return err
	}
	n, ok := m.nodes[path]
	if !ok {
		return fsErr("chmod", path, domain.KindNotFound, syscall.ENOENT)
	}
	n.mode = n.mode&^fs.ModePerm | perm
	return nil
}

func (m *memFS) CreateFile(path string) error {
	if err := m.enter("create", path); err != nil {
		return err
	}
	if m.exists(path) {
		return fsErr("create", path, domain.KindAlreadyExists, syscall.EEXIST)
	}
	if err := m.parentOK("create", path); err != nil {
		return err
	}
	m.nodes[path] = &memNode{mode: 0o644}
	return nil
}

func (m *memFS) CopyFile(src, dst string, overwrite bool) error {
	if err := m.enter("copy", src, dst, fmt.Sprint(overwrite)); err != nil {
		return err
	}
	n, ok := m.nodes[src]
	if !ok {
		return fsErr("copy", src, domain.KindNotFound, syscall.ENOENT)
	}
	if m.exists(dst) && !overwrite {
		return fsErr("copy", dst, domain.KindAlreadyExists, syscall.EEXIST)
	}
	if err := m.parentOK("copy", dst); err != nil {
		return err
	}
	m.nodes[dst] = &memNode{mode: n.mode, data: append([]byte(nil), n.data...)}
	return nil
}

func (m *memFS) Rename(src, dst string, replace bool) error {
	if err := m.enter("rename", src, dst, fmt.Sprint(replace)); err != nil {
		return err
	}
	if !m.exists(src) {
		return fsErr("rename", src, domain.KindNotFound, syscall.ENOENT)
	}
	if m.volumeOf(src) != m.volumeOf(filepath.Dir(dst)) {
		return fsErr("rename", src, domain.KindCrossVolume, syscall.EXDEV)
	}
	if m.exists(dst) && !replace {
		return fsErr("rename", dst, domain.KindAlreadyExists, syscall.EEXIST)
	}
	if d, ok := m.nodes[dst]; ok && d.dir {
		if !m.nodes[src].dir {
			return fsErr("rename", src, domain.KindUnknown, syscall.EISDIR)
		}
		if len(m.children(dst)) > 0 {
			return fsErr("rename", src, domain.KindUnknown, syscall.ENOTEMPTY)
		}
	}
	if err := m.parentOK("rename", dst); err != nil {
		return err
	}
	moved := map[string]*memNode{}
	for p, n := range m.nodes {
		if p == src || strings.HasPrefix(p, src+"/") {
			moved[dst+strings.TrimPrefix(p, src)] = n
			delete(m.nodes, p)
		}
	}
	for p, n := range moved {
		m.nodes[p] = n
	}
	return nil
}

func (m *memFS) OpenRead(path string) (io.ReadCloser, error) {
	if err := m.enter("open", path); err != nil {
		return nil, err
	}
	n, ok := m.nodes[path]
	if !ok {
		return nil, fsErr("open", path, domain.KindNotFound, syscall.ENOENT)
	}
	return io.NopCloser(bytes.NewReader(n.data)), nil
}

func (m *memFS) OpenWrite(path string, overwrite bool) (io.WriteCloser, error) {
	if err := m.enter("openw", path, fmt.Sprint(overwrite)); err != nil {
		return nil, err
	}
	if m.exists(path) && !overwrite {
		return nil, fsErr("openw", path, domain.KindAlreadyExists, syscall.EEXIST)
	}
	if err := m.parentOK("openw", path); err != nil {
		return nil, err
	}
	n := &memNode{mode: 0o644}
	m.nodes[path] = n
	return &memWriter{fs: m, path: path, node: n}, nil
}

func (m *memFS) SameVolume(a, b string) (bool, error) {
	return m.volumeOf(a) == m.volumeOf(b), nil
}

func (m *memFS) volumeOf(path string) string {
	best, name := "", ""
	for prefix, v := range m.volumes {
		if (path == prefix || strings.HasPrefix(path, prefix+"/")) && len(prefix) > len(best) {
			best, name = prefix, v
		}
	}
	return name
}

type memWriter struct {
	fs   *memFS
	path string
	node *memNode
}

func (w *memWriter) Write(p []byte) (int, error) {
	w.fs.writes[w.path]++
	if w.fs.short[w.path] && len(p) > 1 {
		w.node.data = append(w.node.data, p[:len(p)-1]...)
		return len(p) - 1, nil
	}
	w.node.data = append(w.node.data, p...)
	return len(p), nil
}

func (w *memWriter) Close() error { return nil }

// recorder collects observer signals.
type recorder struct {
	events  []domain.Event
	prompts []domain.Decision
}

func (r *recorder) Finished(ev domain.Event) { r.events = append(r.events, ev) }

func (r *recorder) Prompted(_ domain.Conflict, d domain.Decision) { r.prompts = append(r.prompts, d) }

// mockLocker is a test double for the Locker interface.
type mockLocker struct {
	tryLockErr    error
	unlockErr     error
	tryLockCalled bool
	unlockCalled  bool
}

func (m *mockLocker) TryLock(context.Context) error {
	m.tryLockCalled = true
	return m.tryLockErr
}

func (m *mockLocker) Unlock() error {
	m.unlockCalled = true
	return m.unlockErr
}
