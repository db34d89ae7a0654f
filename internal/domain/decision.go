// Package domain holds the data model shared by the file-operation engine
// and its adapters.
package domain

import "fmt"

// Decision is the caller's answer to a failure prompt.
type Decision int

const (
	// Cancel aborts the whole operation.
	Cancel Decision = iota
	// Retry repeats the failed primitive, possibly in a modified form (see Hint).
	Retry
	// Continue skips the current item and proceeds to its siblings.
	Continue
)

// String returns the lowercase decision name.
func (d Decision) String() string {
	switch d {
	case Cancel:
		return "cancel"
	case Retry:
		return "retry"
	case Continue:
		return "continue"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// ParseDecision parses "cancel", "retry" or "continue".
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "cancel":
		return Cancel, nil
	case "retry":
		return Retry, nil
	case "continue":
		return Continue, nil
	}
	return Cancel, fmt.Errorf("unknown decision %q", s)
}

// Severity classifies how a prompt should be presented.
type Severity int

const (
	// SeverityWarning is used for recoverable per-item failures.
	SeverityWarning Severity = iota
	// SeverityError is used for failures of single-shot operations.
	SeverityError
)

// String returns "warning" or "error".
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Hint tells the prompter what choosing Retry will do.
type Hint int

const (
	// HintRetry repeats the same primitive unchanged.
	HintRetry Hint = iota
	// HintOverwrite retries replacing the existing destination.
	HintOverwrite
	// HintIgnoreAttributes retries as a manual byte copy that drops metadata.
	HintIgnoreAttributes
	// HintOverwriteIgnoreAttributes retries as a manual byte copy replacing the destination.
	HintOverwriteIgnoreAttributes
)

// String describes the retry action in prompt wording.
func (h Hint) String() string {
	switch h {
	case HintOverwrite:
		return "retry to overwrite"
	case HintIgnoreAttributes:
		return "retry to ignore file attributes"
	case HintOverwriteIgnoreAttributes:
		return "retry to overwrite and ignore file attributes"
	}
	return "retry"
}

// Overwrites reports whether Retry under this hint replaces the destination.
func (h Hint) Overwrites() bool {
	return h == HintOverwrite || h == HintOverwriteIgnoreAttributes
}
