package tracing

import (
	"sync"
)

// CountTracer counts how often each candidate runs and how many edit steps
// happened.
type CountTracer struct {
	lock sync.Mutex

	candidates []string
	runs       map[string]uint64
	skipped    uint64
	failures   uint64
	edits      map[string]uint64
}

// NewCountTracer creates a new CountTracer.
func NewCountTracer() *CountTracer {
	return &CountTracer{
		runs:  make(map[string]uint64),
		edits: make(map[string]uint64),
	}
}

// TraceCycle counts executed candidates and skipped cycles.
func (t *CountTracer) TraceCycle(e CycleEvent) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if e.Err != nil {
		t.failures++
		return
	}

	switch e.Phase {
	case "skip":
		t.skipped++
	case "run":
		if _, ok := t.runs[e.Candidate]; !ok {
			t.candidates = append(t.candidates, e.Candidate)
		}

		t.runs[e.Candidate]++
	}
}

// TraceEdit counts edit steps by kind.
func (t *CountTracer) TraceEdit(e EditEvent) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.edits[e.Step]++
}

// Candidates returns the names of the candidates that ran, in order of their
// first run.
func (t *CountTracer) Candidates() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	list := make([]string, len(t.candidates))
	copy(list, t.candidates)

	return list
}

// Runs returns how often a candidate was executed.
func (t *CountTracer) Runs(candidate string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.runs[candidate]
}

// Skipped returns the number of cycles without a candidate.
func (t *CountTracer) Skipped() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.skipped
}

// Failures returns the number of phases in which a candidate failed.
func (t *CountTracer) Failures() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.failures
}

// Edits returns how many edit steps of a kind happened.
func (t *CountTracer) Edits(step string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.edits[step]
}
