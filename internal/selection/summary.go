package selection

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Summary counts what a selection contains.
type Summary struct {
	Files      int64 `json:"files"`
	Dirs       int64 `json:"dirs"`
	Bytes      int64 `json:"bytes"`
	Unreadable int64 `json:"unreadable"`
}

// String renders the summary for a confirmation prompt.
func (s Summary) String() string {
	out := fmt.Sprintf("%s, %s, %s", plural(s.Files, "file"), plural(s.Dirs, "dir"), FormatBytes(s.Bytes))
	if s.Unreadable > 0 {
		out += fmt.Sprintf(", %d unreadable", s.Unreadable)
	}
	return out
}

func plural(n int64, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatBytes renders size with a binary unit.
func FormatBytes(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	value := float64(size)
	for _, unit := range units {
		value /= 1024
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%.1f %s", value, units[len(units)-1])
}

// Summarize walks every path without following symlinks and totals its
// contents. Directories are walked concurrently. Missing paths are ignored;
// entries that cannot be read are counted as unreadable.
func Summarize(ctx context.Context, paths []string) (Summary, error) {
	var files, dirs, bytes, unreadable atomic.Int64

	for _, root := range paths {
		info, err := os.Lstat(root)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			unreadable.Add(1)
			continue
		}
		if !info.IsDir() {
			files.Add(1)
			bytes.Add(info.Size())
			continue
		}
		dirs.Add(1)

		conf := fastwalk.Config{Follow: false}
		err = fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				unreadable.Add(1)
				return nil
			}
			if path == root {
				return nil
			}
			if d.IsDir() {
				dirs.Add(1)
				return nil
			}
			files.Add(1)
			if fi, err := d.Info(); err == nil {
				bytes.Add(fi.Size())
			}
			return nil
		})
		if err != nil {
			return Summary{}, fmt.Errorf("summarising %s: %w", root, err)
		}
	}

	return Summary{
		Files:      files.Load(),
		Dirs:       dirs.Load(),
		Bytes:      bytes.Load(),
		Unreadable: unreadable.Load(),
	}, nil
}
