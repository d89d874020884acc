package pipeline

import (
	"slices"
	"strings"
	"time"

	"datamine/internal/services"
)

// Outcome is the result of one source's state machine.
type Outcome struct {
	Source  string
	State   State
	Changed bool
	// Paths lists the artifacts written during this run.
	Paths []string
	// Digest is the BLAKE3 digest over every rendered artifact.
	Digest string
	// Trail records every state the source passed through, starting at Idle.
	Trail    []State
	Err      error
	Duration time.Duration
}

// ErrorKind returns the taxonomy label of the outcome's error.
func (o Outcome) ErrorKind() string {
	return services.Kind(o.Err)
}

// Visited reports whether the source passed through s.
func (o Outcome) Visited(s State) bool {
	return slices.Contains(o.Trail, s)
}

// Summary aggregates all outcomes of a run, sorted by source name.
type Summary struct {
	RunID    string
	Scenario string
	BuildID  string
	Headline string
	// BuildSkipped is set when the build gate skipped every source.
	BuildSkipped bool
	Outcomes     []Outcome
	Started      time.Time
	Finished     time.Time
}

// Changed returns the sorted names of sources that reached Done.
func (s Summary) Changed() []string {
	var names []string
	for _, o := range s.Outcomes {
		if o.State == StateDone {
			names = append(names, o.Source)
		}
	}
	slices.Sort(names)
	return names
}

// Failed returns the outcomes that ended in Failed.
func (s Summary) Failed() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if o.State == StateFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Count returns how many outcomes ended in state.
func (s Summary) Count(state State) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}

// HasChanges reports whether any source reached Done.
func (s Summary) HasChanges() bool {
	return s.Count(StateDone) > 0
}

// Message renders the commit message: the headline followed by one line per
// changed source.
func (s Summary) Message() string {
	changed := s.Changed()
	var b strings.Builder
	b.WriteString(s.Headline)
	if len(changed) > 0 && s.Headline != "" {
		b.WriteString("\n\n")
	}
	for _, name := range changed {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}
