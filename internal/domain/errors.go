package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the coarse classification of a filesystem primitive failure.
// It is only as fine as needed to pick a fallback path.
type ErrorKind int

// Error kinds, from least to most specific fallback trigger.
const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindAccessDenied
	KindAlreadyExists
	KindAttributesUnsupported
	KindShortWrite
	KindCrossVolume
)

var kindNames = map[ErrorKind]string{
	KindUnknown:               "unknown",
	KindNotFound:              "not_found",
	KindAccessDenied:          "access_denied",
	KindAlreadyExists:         "already_exists",
	KindAttributesUnsupported: "attributes_unsupported",
	KindShortWrite:            "short_write",
	KindCrossVolume:           "cross_volume",
}

// String returns the snake_case kind name.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrSameFile is reported when source and destination resolve to the same path.
var ErrSameFile = errors.New("source and destination are the same")

// ErrNestedDestination is reported when the destination lies inside the source subtree.
var ErrNestedDestination = errors.New("destination is inside the source")

// FSError is a classified failure of a single filesystem primitive.
type FSError struct {
	Op   string
	Path string
	Kind ErrorKind
	Code int // OS error number, 0 when none
	Err  error
}

// Error formats the failure as "op path: os error text".
func (e *FSError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying OS error.
func (e *FSError) Unwrap() error {
	return e.Err
}

// KindOf returns the classification carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var fe *FSError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// CodeOf returns the OS error number carried by err, or 0.
func CodeOf(err error) int {
	var fe *FSError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}
