// Package tracing collects what cases do, cycle by cycle and edit by edit.
package tracing

import "github.com/sarchlab/casesim/sim"

// CycleEvent describes one phase of a case cycle.
type CycleEvent struct {
	Time      sim.VTimeInSec
	Case      string
	Cycle     uint64
	Phase     string
	Candidate string
	Ready     bool
	Continue  bool
	Err       error
}

// EditEvent describes one step of a structural edit.
type EditEvent struct {
	Time       sim.VTimeInSec
	Container  string
	Step       string
	Entity     string
	Origin     string
	Propagated bool
	Item       string
	Relation   string
}

// A Tracer collects cycle and edit events.
type Tracer interface {
	TraceCycle(e CycleEvent)
	TraceEdit(e EditEvent)
}

// NamedHookable is a hookable object that has a name.
type NamedHookable interface {
	sim.Named
	sim.Hookable
}
