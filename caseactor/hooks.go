package caseactor

import "github.com/sarchlab/casesim/sim"

// HookPosSelected marks a candidate chosen and probed. The hook item is the
// candidate.
var HookPosSelected = &sim.HookPos{Name: "Candidate Selected"}

// HookPosSkipped marks a cycle in which no candidate was chosen.
var HookPosSkipped = &sim.HookPos{Name: "Cycle Skipped"}

// HookPosFired marks a candidate executed.
var HookPosFired = &sim.HookPos{Name: "Candidate Fired"}

// HookPosFinalized marks a candidate finalized.
var HookPosFinalized = &sim.HookPos{Name: "Candidate Finalized"}

// CycleDetail is the detail attached to every cycle hook.
type CycleDetail struct {
	Cycle    uint64
	Ready    bool
	Continue bool
	Err      error
}
