package modeling

import "github.com/sarchlab/casesim/sim"

// HookPosPortAdded marks a port created on the container or a refinement.
// The hook item is the Port.
var HookPosPortAdded = &sim.HookPos{Name: "Port Added"}

// HookPosRelationCreated marks a relation created for a mirrored port name.
// The hook item is the Relation.
var HookPosRelationCreated = &sim.HookPos{Name: "Relation Created"}

// HookPosPortLinked marks a port joining a relation. The hook item is the
// Port.
var HookPosPortLinked = &sim.HookPos{Name: "Port Linked"}

// HookPosFlagsMirrored marks a port whose direction flags were set from the
// container's port. The hook item is the Port.
var HookPosFlagsMirrored = &sim.HookPos{Name: "Port Flags Mirrored"}

// HookPosRefinementAttached marks a refinement joining the container. The
// hook item is the *Refinement.
var HookPosRefinementAttached = &sim.HookPos{Name: "Refinement Attached"}

// MirrorDetail is the detail attached to every structural hook.
type MirrorDetail struct {
	// Entity is the name of the entity the step touched.
	Entity string

	// Origin is the name of the entity the edit started from.
	Origin string

	// Propagated is false only for the step that happened on the origin
	// itself.
	Propagated bool

	// Relation is the relation involved in the step, if any.
	Relation string
}

type mirrorStep struct {
	pos    *sim.HookPos
	item   any
	detail MirrorDetail
}
