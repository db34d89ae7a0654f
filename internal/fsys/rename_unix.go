//go:build unix

package fsys

import (
	"errors"

	"golang.org/x/sys/unix"
)

// checkedRename refuses to rename onto an existing entry. The check and the
// rename are separate system calls.
func checkedRename(src, dst string) error {
	var st unix.Stat_t
	err := unix.Lstat(dst, &st)
	if err == nil {
		return unix.EEXIST
	}
	if !errors.Is(err, unix.ENOENT) {
		return err
	}
	return unix.Rename(src, dst)
}
