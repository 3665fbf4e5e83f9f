// Package caseactor implements case components. A case owns a
// multi-refinement container and, every cycle, picks one candidate and
// forwards the select, run and finalize calls to it.
package caseactor

// An Actor is a unit that a case can delegate a cycle to.
type Actor interface {
	Name() string

	// Ready probes whether the actor can run in the current cycle.
	Ready() (bool, error)

	// Execute runs the actor.
	Execute() error

	// Finalize completes the cycle. It returns false if the actor requests
	// the model to stop iterating.
	Finalize() (bool, error)
}
