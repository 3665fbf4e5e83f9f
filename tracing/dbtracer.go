package tracing

import (
	"sync"

	"github.com/sarchlab/casesim/datarecording"
)

// Tables written by the DBTracer.
const (
	CycleTable = "case_cycle"
	EditTable  = "case_edit"
)

// CycleEntry is a row of the cycle table.
type CycleEntry struct {
	Time      float64
	Case      string
	Cycle     uint64
	Phase     string
	Candidate string
	Ready     bool
	Continue  bool
	Error     string
}

// EditEntry is a row of the edit table.
type EditEntry struct {
	Time       float64
	Container  string
	Step       string
	Entity     string
	Origin     string
	Propagated bool
	Item       string
	Relation   string
}

// DBTracer is a tracer that stores events into a data recorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and the tables it writes to.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	backend.CreateTable(CycleTable, CycleEntry{})
	backend.CreateTable(EditTable, EditEntry{})

	return &DBTracer{backend: backend}
}

// TraceCycle records a cycle event.
func (t *DBTracer) TraceCycle(e CycleEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := CycleEntry{
		Time:      float64(e.Time),
		Case:      e.Case,
		Cycle:     e.Cycle,
		Phase:     e.Phase,
		Candidate: e.Candidate,
		Ready:     e.Ready,
		Continue:  e.Continue,
	}

	if e.Err != nil {
		entry.Error = e.Err.Error()
	}

	t.backend.InsertData(CycleTable, entry)
}

// TraceEdit records an edit event.
func (t *DBTracer) TraceEdit(e EditEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(EditTable, EditEntry{
		Time:       float64(e.Time),
		Container:  e.Container,
		Step:       e.Step,
		Entity:     e.Entity,
		Origin:     e.Origin,
		Propagated: e.Propagated,
		Item:       e.Item,
		Relation:   e.Relation,
	})
}
