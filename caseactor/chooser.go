package caseactor

import (
	"fmt"
	"strings"
)

// A Chooser picks the candidate that runs in a cycle. Returning a nil Actor
// skips the cycle.
type Chooser interface {
	Choose(cycle uint64, candidates []Actor) (Actor, error)
}

// ChooseFunc adapts a function to the Chooser interface.
type ChooseFunc func(cycle uint64, candidates []Actor) (Actor, error)

// Choose calls f.
func (f ChooseFunc) Choose(cycle uint64, candidates []Actor) (Actor, error) {
	return f(cycle, candidates)
}

func findCandidate(candidates []Actor, name string) (Actor, bool) {
	for _, c := range candidates {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

// Sequence chooses candidates by name from a script indexed by the cycle
// number. The script wraps around. An empty name skips the cycle.
type Sequence struct {
	names []string
}

// NewSequence creates a Sequence.
func NewSequence(names ...string) *Sequence {
	return &Sequence{names: names}
}

// Choose returns the candidate scripted for the cycle.
func (s *Sequence) Choose(cycle uint64, candidates []Actor) (Actor, error) {
	if len(s.names) == 0 {
		return nil, nil
	}

	name := s.names[cycle%uint64(len(s.names))]
	if name == "" {
		return nil, nil
	}

	c, found := findCandidate(candidates, name)
	if !found {
		return nil, fmt.Errorf("sequence: no candidate named %q", name)
	}

	return c, nil
}

func (s *Sequence) String() string {
	return "sequence(" + strings.Join(s.names, ",") + ")"
}

// RoundRobin chooses the candidates in registration order, one per cycle.
type RoundRobin struct {
	next int
}

// NewRoundRobin creates a RoundRobin chooser.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Choose returns the next candidate.
func (r *RoundRobin) Choose(_ uint64, candidates []Actor) (Actor, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	c := candidates[r.next%len(candidates)]
	r.next = (r.next + 1) % len(candidates)

	return c, nil
}

func (r *RoundRobin) String() string {
	return "round-robin"
}

// ByControl chooses the candidate whose name matches the control value. If
// nothing matches, the default candidate runs. If there is no default
// candidate either, the cycle is skipped.
type ByControl struct {
	control      string
	defaultActor string
}

// NewByControl creates a ByControl chooser with the given default candidate
// name. An empty default skips cycles with an unmatched control value.
func NewByControl(defaultActor string) *ByControl {
	return &ByControl{defaultActor: defaultActor}
}

// SetControl sets the control value used from the next selection on.
func (b *ByControl) SetControl(value string) {
	b.control = value
}

// Control returns the current control value.
func (b *ByControl) Control() string {
	return b.control
}

// Choose returns the matched or the default candidate.
func (b *ByControl) Choose(_ uint64, candidates []Actor) (Actor, error) {
	if c, found := findCandidate(candidates, b.control); found {
		return c, nil
	}

	if c, found := findCandidate(candidates, b.defaultActor); found {
		return c, nil
	}

	return nil, nil
}

func (b *ByControl) String() string {
	return "by-control(default=" + b.defaultActor + ")"
}
