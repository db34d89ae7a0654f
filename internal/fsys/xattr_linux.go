package fsys

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// copyXattrs copies the extended attributes of src onto dst. A source
// filesystem without xattr support has nothing to copy. Only user.*
// attributes are required; other namespaces are copied when permitted.
func copyXattrs(src, dst *os.File) error {
	sfd, dfd := int(src.Fd()), int(dst.Fd())

	size, err := unix.Flistxattr(sfd, nil)
	if errors.Is(err, unix.ENOTSUP) {
		return nil
	}
	if err != nil || size == 0 {
		return err
	}
	list := make([]byte, size)
	if size, err = unix.Flistxattr(sfd, list); err != nil {
		return err
	}

	for _, name := range bytes.Split(list[:size], []byte{0}) {
		if len(name) == 0 {
			continue
		}
		attr := string(name)
		n, err := unix.Fgetxattr(sfd, attr, nil)
		if err != nil {
			return err
		}
		val := make([]byte, n)
		if n, err = unix.Fgetxattr(sfd, attr, val); err != nil {
			return err
		}
		if err := unix.Fsetxattr(dfd, attr, val[:n], 0); err != nil {
			if !strings.HasPrefix(attr, "user.") {
				continue
			}
			return err
		}
	}
	return nil
}
