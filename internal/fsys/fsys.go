//go:build unix

// Package fsys implements the engine's filesystem primitives on the host OS.
// Every failure is returned as a *domain.FSError.
package fsys

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/eykd/fmgr-go/internal/domain"
)

// OS implements engine.Filesystem using the host's system calls.
type OS struct{}

// New returns the host filesystem.
func New() *OS {
	return &OS{}
}

func entryOf(info fs.FileInfo) domain.Entry {
	return domain.Entry{
		Name:    info.Name(),
		Mode:    info.Mode(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// ReadDir lists the immediate children of path. Entries that disappear while
// listing are left out.
func (o *OS) ReadDir(path string) ([]domain.Entry, error) {
	des, err := os.ReadDir(path)
	if err != nil {
		return nil, wrap("readdir", path, err)
	}
	entries := make([]domain.Entry, 0, len(des))
	for _, de := range des {
		if domain.IsSelfOrParent(de.Name()) {
			continue
		}
		info, err := de.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, wrap("readdir", path, err)
		}
		entries = append(entries, entryOf(info))
	}
	return entries, nil
}

// Lstat returns the attributes of path without following a final symlink.
func (o *OS) Lstat(path string) (domain.Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return domain.Entry{}, wrap("lstat", path, err)
	}
	return entryOf(info), nil
}

// RemoveFile unlinks a non-directory.
func (o *OS) RemoveFile(path string) error {
	return wrap("unlink", path, unix.Unlink(path))
}

// RemoveDir removes an empty directory.
func (o *OS) RemoveDir(path string) error {
	return wrap("rmdir", path, unix.Rmdir(path))
}

// MakeDir creates a single directory.
func (o *OS) MakeDir(path string, perm fs.FileMode) error {
	return wrap("mkdir", path, os.Mkdir(path, perm))
}

// Chmod sets the permission bits of path.
func (o *OS) Chmod(path string, perm fs.FileMode) error {
	return wrap("chmod", path, os.Chmod(path, perm))
}

// CreateFile creates a new empty file, failing if path exists.
func (o *OS) CreateFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return wrap("create", path, err)
	}
	return wrap("create", path, f.Close())
}

// setTimes is os.Chtimes, replaceable in tests.
var setTimes = os.Chtimes

// CopyFile copies src to dst with its permissions, modification time and
// extended attributes. Symlinks are recreated rather than followed. Unless
// overwrite is set an existing dst is an AlreadyExists failure. A failed copy
// removes whatever it created; an existing dst that was being overwritten is
// left with the copied bytes.
func (o *OS) CopyFile(src, dst string, overwrite bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return wrap("copy", src, err)
	}
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return copySymlink(src, dst, overwrite)
	case !info.Mode().IsRegular():
		return &domain.FSError{Op: "copy", Path: src, Kind: domain.KindUnknown, Err: errSpecialFile}
	}

	in, err := os.Open(src)
	if err != nil {
		return wrap("copy", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, createFlags(overwrite), info.Mode().Perm())
	if err != nil {
		return wrap("copy", dst, err)
	}
	if err := fill(out, in, info); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return wrap("copy", dst, err)
	}
	if err := setTimes(dst, time.Time{}, info.ModTime()); err != nil {
		if !overwrite {
			_ = os.Remove(dst)
		}
		return attrError("copy", dst, err)
	}
	return nil
}

func fill(out, in *os.File, info fs.FileInfo) error {
	if _, err := io.Copy(out, in); err != nil {
		return wrap("copy", out.Name(), err)
	}
	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return attrError("copy", out.Name(), err)
	}
	if err := copyXattrs(in, out); err != nil {
		return attrError("copy", out.Name(), err)
	}
	return nil
}

func copySymlink(src, dst string, overwrite bool) error {
	target, err := os.Readlink(src)
	if err != nil {
		return wrap("copy", src, err)
	}
	if overwrite {
		if err := unix.Unlink(dst); err != nil && !errors.Is(err, unix.ENOENT) {
			return wrap("copy", dst, err)
		}
	}
	return wrap("copy", dst, os.Symlink(target, dst))
}

func createFlags(overwrite bool) int {
	if overwrite {
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	return os.O_WRONLY | os.O_CREATE | os.O_EXCL
}

// Rename moves src to dst on the same volume. Without replace an existing
// dst is an AlreadyExists failure. With replace a file replaces a file and a
// directory replaces an empty directory; a non-empty one is refused by the OS.
func (o *OS) Rename(src, dst string, replace bool) error {
	if replace {
		return wrap("rename", src, unix.Rename(src, dst))
	}
	return wrap("rename", src, renameNoReplace(src, dst))
}

// OpenRead opens path for a manual copy.
func (o *OS) OpenRead(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("open", path, err)
	}
	return &handle{f: f}, nil
}

// OpenWrite creates path for a manual copy, truncating an existing file only
// when overwrite is set.
func (o *OS) OpenWrite(path string, overwrite bool) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, createFlags(overwrite), 0o666)
	if err != nil {
		return nil, wrap("open", path, err)
	}
	return &handle{f: f}, nil
}

// SameVolume reports whether a and b live on the same device.
func (o *OS) SameVolume(a, b string) (bool, error) {
	var sa, sb unix.Stat_t
	if err := unix.Lstat(a, &sa); err != nil {
		return false, wrap("stat", a, err)
	}
	if err := unix.Stat(b, &sb); err != nil {
		return false, wrap("stat", b, err)
	}
	return sa.Dev == sb.Dev, nil
}

// handle classifies read and write failures on an open file. io.EOF passes
// through untouched.
type handle struct {
	f *os.File
}

func (h *handle) Read(p []byte) (int, error) {
	n, err := h.f.Read(p)
	if err != nil && err != io.EOF {
		err = wrap("read", h.f.Name(), err)
	}
	return n, err
}

func (h *handle) Write(p []byte) (int, error) {
	n, err := h.f.Write(p)
	return n, wrap("write", h.f.Name(), err)
}

func (h *handle) Close() error {
	return wrap("close", h.f.Name(), h.f.Close())
}
