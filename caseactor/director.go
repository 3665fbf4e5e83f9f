package caseactor

import (
	"github.com/sarchlab/casesim/sim"
)

// State is the position of a director within a cycle.
type State int

// Director states.
const (
	StateIdle State = iota
	StateSelecting
	StateSelected
	StateFired
	StatePostfired
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateSelected:
		return "selected"
	case StateFired:
		return "fired"
	case StatePostfired:
		return "postfired"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// A Director runs the choose-and-fire protocol of a case. It is owned by the
// case and never shows up in the case's structure.
type Director struct {
	*sim.HookableBase

	name       string
	chooser    Chooser
	candidates []Actor

	state    State
	cycle    uint64
	choice   Actor
	ready    bool
	executed bool
}

// NewDirector creates a director that picks candidates with the given
// chooser.
func NewDirector(name string, chooser Chooser) *Director {
	if chooser == nil {
		panic("director requires a chooser")
	}

	return &Director{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		chooser:      chooser,
	}
}

// Name returns the name of the director.
func (d *Director) Name() string {
	return d.name
}

// AddCandidate registers an actor that can be chosen.
func (d *Director) AddCandidate(a Actor) {
	d.candidates = append(d.candidates, a)
}

// Candidates returns the registered actors in registration order.
func (d *Director) Candidates() []Actor {
	list := make([]Actor, len(d.candidates))
	copy(list, d.candidates)

	return list
}

// Chooser returns the chooser of the director.
func (d *Director) Chooser() Chooser {
	return d.chooser
}

// State returns the current state.
func (d *Director) State() State {
	return d.state
}

// Cycle returns the number of the current cycle, starting from 0.
func (d *Director) Cycle() uint64 {
	return d.cycle
}

// Choice returns the candidate chosen in the current cycle, or nil.
func (d *Director) Choice() Actor {
	return d.choice
}

// Reset ends the current cycle and forgets its choice.
func (d *Director) Reset() {
	d.state = StateIdle
	d.choice = nil
	d.ready = false
	d.executed = false
	d.cycle++
}

// Select chooses a candidate for the cycle and probes its readiness. It
// returns false if no candidate was chosen. Within one cycle the chooser is
// asked only once: selecting again probes the same candidate, or returns
// false if the cycle was skipped or the candidate already failed to run.
// A finished cycle must be Reset before the next selection.
func (d *Director) Select() (bool, error) {
	switch d.state {
	case StateSkipped:
		return false, nil
	case StateSelected:
		if d.executed {
			return false, nil
		}

		return d.probe()
	case StateIdle:
	default:
		return false, &UsageSequenceError{Op: "select", State: d.state}
	}

	d.state = StateSelecting

	choice, err := d.chooser.Choose(d.cycle, d.Candidates())
	if err != nil {
		d.state = StateIdle
		return false, err
	}

	if choice == nil {
		d.state = StateSkipped
		d.invoke(HookPosSkipped, nil, CycleDetail{Cycle: d.cycle})

		return false, nil
	}

	d.choice = choice
	d.state = StateSelected

	return d.probe()
}

func (d *Director) probe() (bool, error) {
	ready, err := d.choice.Ready()
	if err != nil {
		d.ready = false
		err = &CandidateError{
			Candidate: d.choice.Name(),
			Phase:     PhaseReady,
			Err:       err,
		}
	} else {
		d.ready = ready
	}

	d.invoke(HookPosSelected, d.choice, CycleDetail{
		Cycle: d.cycle,
		Ready: d.ready,
		Err:   err,
	})

	return d.ready, err
}

// Run executes the chosen candidate. It requires a ready selection in the
// current cycle. A candidate is executed at most once per cycle. If it
// fails, the director stays in the selected state until the cycle is reset.
func (d *Director) Run() error {
	if d.state != StateSelected || !d.ready || d.executed {
		return &UsageSequenceError{Op: "run", State: d.state}
	}

	d.executed = true

	err := d.choice.Execute()
	if err != nil {
		err = &CandidateError{
			Candidate: d.choice.Name(),
			Phase:     PhaseExecute,
			Err:       err,
		}
		d.ready = false
	} else {
		d.state = StateFired
	}

	d.invoke(HookPosFired, d.choice, CycleDetail{
		Cycle: d.cycle,
		Ready: true,
		Err:   err,
	})

	return err
}

// Finalize completes the cycle of the chosen candidate and returns its
// continuation signal verbatim.
func (d *Director) Finalize() (bool, error) {
	if d.state != StateFired {
		return false, &UsageSequenceError{Op: "finalize", State: d.state}
	}

	cont, err := d.choice.Finalize()
	if err != nil {
		err = &CandidateError{
			Candidate: d.choice.Name(),
			Phase:     PhaseFinalize,
			Err:       err,
		}
	}

	d.state = StatePostfired

	d.invoke(HookPosFinalized, d.choice, CycleDetail{
		Cycle:    d.cycle,
		Ready:    true,
		Continue: cont,
		Err:      err,
	})

	return cont, err
}

func (d *Director) invoke(pos *sim.HookPos, item Actor, detail CycleDetail) {
	if d.NumHooks() == 0 {
		return
	}

	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
