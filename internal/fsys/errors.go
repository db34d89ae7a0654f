//go:build unix

package fsys

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"github.com/eykd/fmgr-go/internal/domain"
)

// errSpecialFile is returned when asked to copy a device, socket or pipe.
var errSpecialFile = errors.New("not a regular file or symlink")

// wrap classifies err as a failure of op on path. A nil err stays nil and an
// error that is already classified is returned unchanged.
func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *domain.FSError
	if errors.As(err, &fe) {
		return err
	}
	return &domain.FSError{Op: op, Path: path, Kind: classify(err), Code: errnoOf(err), Err: cause(err)}
}

// attrError classifies a failure to carry extended attributes or mode bits
// over to a copy. Unsupported operations become KindAttributesUnsupported.
func attrError(op, path string, err error) error {
	if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP) {
		return &domain.FSError{Op: op, Path: path, Kind: domain.KindAttributesUnsupported, Code: errnoOf(err), Err: cause(err)}
	}
	return wrap(op, path, err)
}

// classify maps an OS error onto the coarse kinds the engine branches on.
func classify(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, io.ErrShortWrite):
		return domain.KindShortWrite
	case errors.Is(err, unix.ENOENT):
		return domain.KindNotFound
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return domain.KindAccessDenied
	case errors.Is(err, unix.EEXIST):
		return domain.KindAlreadyExists
	case errors.Is(err, unix.EXDEV):
		return domain.KindCrossVolume
	}
	return domain.KindUnknown
}

func errnoOf(err error) int {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}

// cause strips the os wrappers that repeat the operation and path.
func cause(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	var se *os.SyscallError
	if errors.As(err, &se) {
		return se.Err
	}
	return err
}
