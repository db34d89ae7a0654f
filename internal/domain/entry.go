package domain

import (
	"io/fs"
	"time"
)

// Entry is a transient record produced while enumerating or inspecting a path.
type Entry struct {
	Name    string
	Mode    fs.FileMode
	Size    int64
	ModTime time.Time
}

// IsDir reports whether the entry is a real directory (not a symlink to one).
func (e Entry) IsDir() bool {
	return e.Mode.IsDir()
}

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Mode&fs.ModeSymlink != 0
}

// IsSelfOrParent reports whether name is "." or "..".
func IsSelfOrParent(name string) bool {
	return name == "." || name == ".."
}
