package engine

import (
	"io"

	"github.com/eykd/fmgr-go/internal/domain"
)

// DefaultChunkSize is the manual copy buffer size.
const DefaultChunkSize = 8192

// manualCopy streams src into dst chunk by chunk. dst is created new unless
// overwrite is set. A failed copy removes what it wrote.
func (w *walk) manualCopy(src, dst string, overwrite bool) error {
	in, err := w.fs.OpenRead(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := w.fs.OpenWrite(dst, overwrite)
	if err != nil {
		return err
	}

	err = pump(out, in, w.buf, dst)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rmErr := w.fs.RemoveFile(dst); rmErr != nil {
			w.log.Warnw("removing partial copy", "path", dst, "error", rmErr.Error())
		}
		return err
	}
	return nil
}

// pump copies in to out through buf. A write that accepts fewer bytes than
// requested fails with a short-write error.
func pump(out io.Writer, in io.Reader, buf []byte, dst string) error {
	for {
		nr, rerr := in.Read(buf)
		if nr > 0 {
			nw, werr := out.Write(buf[:nr])
			if werr != nil {
				return werr
			}
			if nw != nr {
				return &domain.FSError{Op: "write", Path: dst, Kind: domain.KindShortWrite, Err: io.ErrShortWrite}
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}
