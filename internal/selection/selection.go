// Package selection turns command-line patterns into the entries a batch
// operates on and measures them before anything is changed.
package selection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMatch is returned when a glob pattern matches nothing.
var ErrNoMatch = errors.New("no matches")

// ErrNotTopLevel is returned when a name pattern reaches below its directory.
var ErrNotTopLevel = errors.New("not a direct child of the source directory")

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// literal reports whether path names an entry as written: it has no glob
// metacharacters, or an entry with exactly that name exists.
func literal(path string) bool {
	if !isPattern(path) {
		return true
	}
	_, err := os.Lstat(path)
	return err == nil
}

func glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s: %w", pattern, ErrNoMatch)
	}
	sort.Strings(matches)
	return matches, nil
}

// Paths expands patterns into cleaned paths. Literal arguments are kept
// even when they do not exist. An argument naming an existing entry is taken
// literally even if it contains glob metacharacters; escape them with a
// backslash to glob instead. Duplicates and paths already covered by a
// selected ancestor are dropped; order follows the arguments.
func Paths(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		if literal(p) {
			out = append(out, filepath.Clean(p))
			continue
		}
		matches, err := glob(p)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			out = append(out, filepath.Clean(m))
		}
	}
	return prune(out), nil
}

// Names expands patterns relative to dir into entry names of dir, with the
// same literal rule as Paths.
func Names(dir string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(name string) error {
		if name == "" || name == "." || name == ".." || strings.ContainsRune(name, os.PathSeparator) {
			return fmt.Errorf("%s: %w", name, ErrNotTopLevel)
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		return nil
	}

	for _, p := range patterns {
		if literal(filepath.Join(dir, p)) {
			if err := add(filepath.Clean(p)); err != nil {
				return nil, err
			}
			continue
		}
		matches, err := glob(filepath.Join(dir, p))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			rel, err := filepath.Rel(dir, m)
			if err != nil {
				return nil, err
			}
			if err := add(rel); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// prune removes duplicates and paths nested under another selected path.
func prune(paths []string) []string {
	var out []string
	for i, p := range paths {
		covered := false
		for j, q := range paths {
			if i == j {
				continue
			}
			if (q == p && j < i) || within(p, q) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, p)
		}
	}
	return out
}

// within reports whether p lies strictly inside dir.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && !filepath.IsAbs(rel)
}
