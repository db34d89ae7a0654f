package domain

// Op names a mutation the engine performs.
type Op string

// Operations reported in events and conflicts.
const (
	OpDelete Op = "delete"
	OpCopy   Op = "copy"
	OpMove   Op = "move"
	OpMkdir  Op = "mkdir"
	OpCreate Op = "create"
	OpRename Op = "rename"
)

// Outcome is how a single mutation ended.
type Outcome string

// Outcomes of the attempt/prompt cycle.
const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeAborted Outcome = "aborted"
)

// Event is the progress signal emitted after each mutation settles.
type Event struct {
	Batch   string
	Op      Op
	Path    string
	Target  string
	Outcome Outcome
	Bytes   int64
	IsDir   bool
	Err     error // last failure seen before the outcome, if any
}

// Conflict describes a failure that needs a decision from the caller.
type Conflict struct {
	Batch    string
	Op       Op
	Path     string
	Kind     ErrorKind
	Code     int
	Err      error
	Hint     Hint
	Severity Severity
}

// NewConflict builds a Conflict for err at path.
func NewConflict(op Op, path string, err error, hint Hint, sev Severity) Conflict {
	return Conflict{
		Op:       op,
		Path:     path,
		Kind:     KindOf(err),
		Code:     CodeOf(err),
		Err:      err,
		Hint:     hint,
		Severity: sev,
	}
}
