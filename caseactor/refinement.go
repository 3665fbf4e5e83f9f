package caseactor

import "github.com/sarchlab/casesim/modeling"

// A Behavior is what a refinement does when the case delegates a cycle to
// it.
type Behavior interface {
	Ready() (bool, error)
	Execute() error
	Finalize() (bool, error)
}

// BehaviorFuncs builds a Behavior from functions. A nil ReadyFunc is always
// ready, a nil ExecuteFunc does nothing and a nil FinalizeFunc always asks
// to continue.
type BehaviorFuncs struct {
	ReadyFunc    func() (bool, error)
	ExecuteFunc  func() error
	FinalizeFunc func() (bool, error)
}

// Ready calls ReadyFunc.
func (b BehaviorFuncs) Ready() (bool, error) {
	if b.ReadyFunc == nil {
		return true, nil
	}

	return b.ReadyFunc()
}

// Execute calls ExecuteFunc.
func (b BehaviorFuncs) Execute() error {
	if b.ExecuteFunc == nil {
		return nil
	}

	return b.ExecuteFunc()
}

// Finalize calls FinalizeFunc.
func (b BehaviorFuncs) Finalize() (bool, error) {
	if b.FinalizeFunc == nil {
		return true, nil
	}

	return b.FinalizeFunc()
}

// RefinementActor is a refinement of a case that can be chosen as a
// candidate.
type RefinementActor struct {
	*modeling.Refinement

	behavior Behavior
}

// Behavior returns the behavior of the refinement.
func (a *RefinementActor) Behavior() Behavior {
	return a.behavior
}

// Ready forwards to the behavior.
func (a *RefinementActor) Ready() (bool, error) {
	return a.behavior.Ready()
}

// Execute forwards to the behavior.
func (a *RefinementActor) Execute() error {
	return a.behavior.Execute()
}

// Finalize forwards to the behavior.
func (a *RefinementActor) Finalize() (bool, error) {
	return a.behavior.Finalize()
}
