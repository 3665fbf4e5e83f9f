package caseactor

import (
	"errors"
	"fmt"
)

// ErrUsageSequence is matched by every UsageSequenceError.
var ErrUsageSequence = errors.New("cycle operations called out of order")

// UsageSequenceError reports a cycle operation called in a state that does
// not allow it.
type UsageSequenceError struct {
	Op    string
	State State
}

func (e *UsageSequenceError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Op, e.State)
}

// Is makes the error match ErrUsageSequence.
func (e *UsageSequenceError) Is(target error) bool {
	return target == ErrUsageSequence
}

// Phase names the cycle call that was forwarded to a candidate.
type Phase string

// Candidate phases.
const (
	PhaseReady    Phase = "ready"
	PhaseExecute  Phase = "execute"
	PhaseFinalize Phase = "finalize"
)

// CandidateError wraps an error returned by a candidate. The original error
// is reachable through errors.Is and errors.As.
type CandidateError struct {
	Candidate string
	Phase     Phase
	Err       error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("candidate %s failed to %s: %v", e.Candidate, e.Phase, e.Err)
}

func (e *CandidateError) Unwrap() error {
	return e.Err
}
