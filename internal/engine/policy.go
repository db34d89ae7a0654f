package engine

import (
	"context"
	"sync"

	"github.com/eykd/fmgr-go/internal/domain"
)

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, c domain.Conflict) domain.Decision

// Prompt calls f.
func (f PrompterFunc) Prompt(ctx context.Context, c domain.Conflict) domain.Decision {
	return f(ctx, c)
}

// Always answers every conflict with d.
func Always(d domain.Decision) Prompter {
	return PrompterFunc(func(context.Context, domain.Conflict) domain.Decision { return d })
}

// Overwrite retries whenever Retry would replace the destination or fall back
// to a manual copy, and answers fallback otherwise.
func Overwrite(fallback domain.Decision) Prompter {
	return PrompterFunc(func(_ context.Context, c domain.Conflict) domain.Decision {
		if c.Hint != domain.HintRetry {
			return domain.Retry
		}
		return fallback
	})
}

// RetryUpTo retries each (path, hint) pair at most n times, then answers then.
func RetryUpTo(n int, then domain.Decision) Prompter {
	type key struct {
		path string
		hint domain.Hint
	}
	var mu sync.Mutex
	seen := map[key]int{}
	return PrompterFunc(func(_ context.Context, c domain.Conflict) domain.Decision {
		mu.Lock()
		defer mu.Unlock()
		k := key{c.Path, c.Hint}
		if seen[k] >= n {
			return then
		}
		seen[k]++
		return domain.Retry
	})
}

// Scripted answers with a fixed sequence of decisions and records every
// conflict it was shown. Once the script runs out it answers Cancel.
type Scripted struct {
	decisions []domain.Decision
	Seen      []domain.Conflict
}

// NewScripted returns a Scripted prompter for ds.
func NewScripted(ds ...domain.Decision) *Scripted {
	return &Scripted{decisions: ds}
}

// Prompt returns the next scripted decision.
func (s *Scripted) Prompt(_ context.Context, c domain.Conflict) domain.Decision {
	s.Seen = append(s.Seen, c)
	if len(s.decisions) == 0 {
		return domain.Cancel
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	return d
}
