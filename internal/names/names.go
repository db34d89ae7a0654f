// Package names validates entry names typed by the user for new files,
// new directories and renames.
package names

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxBytes is the longest name most filesystems accept for one entry.
const MaxBytes = 255

// ErrInvalidName is wrapped by every validation failure.
var ErrInvalidName = errors.New("invalid name")

// Normalize returns name in NFC form with surrounding whitespace removed,
// or an error wrapping ErrInvalidName when it cannot name a single entry.
func Normalize(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	if err := Validate(n); err != nil {
		return "", err
	}
	return n, nil
}

// Validate checks name as given, without normalising it.
func Validate(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case len(name) > MaxBytes:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, MaxBytes)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidName, name)
	case strings.ContainsRune(name, '/'):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control character %U", ErrInvalidName, name, r)
		}
	}
	return nil
}
