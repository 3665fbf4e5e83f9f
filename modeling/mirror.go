package modeling

import (
	"fmt"

	"github.com/sarchlab/casesim/sim"
)

// An edit is one structural change in progress. It always runs inside the
// exclusive scope of the container's graph. A port addition visits the
// container once and then every refinement once; the origin only decides
// which duplicate check applies and which port is returned.
type edit struct {
	c          *MultiComposite
	origin     EntityID
	originName string
	steps      []mirrorStep
}

func (e *edit) record(pos *sim.HookPos, item any, entity EntityID, relation string) {
	e.steps = append(e.steps, mirrorStep{
		pos:  pos,
		item: item,
		detail: MirrorDetail{
			Entity:     e.c.graph.Entity(entity).Name,
			Origin:     e.originName,
			Propagated: entity != e.origin,
			Relation:   relation,
		},
	})
}

// addPort creates the port on the origin and broadcasts it. The container is
// visited first so that its port exists before any refinement port is linked.
func (e *edit) addPort(name string, flags PortFlags) (PortID, error) {
	g := e.c.graph

	if _, found := g.LookupPort(e.origin, name); found {
		return 0, &DuplicateNameError{
			Entity: e.originName, Kind: "port", Name: name}
	}

	parentPort, err := g.CreatePort(e.c.self, name, flags)
	if err != nil {
		return 0, err
	}

	e.record(HookPosPortAdded, g.Port(parentPort), e.c.self, "")

	originPort := parentPort

	var mirrored []EntityID

	for i, rid := range e.c.refinements {
		if _, found := g.LookupPort(rid, name); found {
			continue
		}

		pid, err := e.terminalLeg(rid, name, parentPort)
		if err != nil {
			return 0, e.partial(name, mirrored, i, err)
		}

		mirrored = append(mirrored, rid)

		if rid == e.origin {
			originPort = pid
		}
	}

	return originPort, nil
}

// terminalLeg creates the mirrored port on one refinement and links it.
func (e *edit) terminalLeg(
	rid EntityID,
	name string,
	parentPort PortID,
) (PortID, error) {
	g := e.c.graph

	pid, err := g.CreatePort(rid, name, g.Port(parentPort).Flags)
	if err != nil {
		return 0, err
	}

	e.record(HookPosPortAdded, g.Port(pid), rid, "")

	err = e.link(rid, pid, parentPort)
	if err != nil {
		return 0, err
	}

	return pid, nil
}

func (e *edit) link(rid EntityID, pid PortID, parentPort PortID) error {
	g := e.c.graph

	rel, err := e.relationFor(parentPort)
	if err != nil {
		return err
	}

	err = g.Link(pid, rel)
	if err != nil {
		return err
	}

	relName := g.Relation(rel).Name
	e.record(HookPosPortLinked, g.Port(pid), rid, relName)

	return nil
}

// relationFor finds the relation of a container port by name, creating it
// and linking the container port on first use.
func (e *edit) relationFor(parentPort PortID) (RelationID, error) {
	g := e.c.graph
	relName := RelationName(g.Port(parentPort).Name)

	if rel, found := g.LookupRelation(relName); found {
		return rel, nil
	}

	rel, err := g.CreateRelation(relName)
	if err != nil {
		return 0, err
	}

	e.record(HookPosRelationCreated, g.Relation(rel), e.c.self, relName)

	err = g.Link(parentPort, rel)
	if err != nil {
		return 0, err
	}

	e.record(HookPosPortLinked, g.Port(parentPort), e.c.self, relName)

	return rel, nil
}

// mirrorFlags copies the direction flags of a container port onto a
// refinement port. It is idempotent.
func (e *edit) mirrorFlags(src PortID, rid EntityID, dst PortID) {
	g := e.c.graph

	g.SetPortFlags(dst, g.Port(src).Flags)
	e.record(HookPosFlagsMirrored, g.Port(dst), rid, "")
}

// mirrorInterface copies the whole container interface onto a refinement that
// was just added to the graph. The container's flags win over whatever the
// refinement declared while detached. A failure names the port that could
// not be mirrored; earlier ports stay on the refinement.
func (e *edit) mirrorInterface(rid EntityID) error {
	g := e.c.graph

	for _, parentPort := range g.Entity(e.c.self).Ports {
		name := g.Port(parentPort).Name

		if _, err := e.terminalLeg(rid, name, parentPort); err != nil {
			return &PartialMirrorError{
				Port:    name,
				Pending: []string{g.Entity(rid).Name},
				Err:     err,
			}
		}
	}

	return nil
}

// setFlags changes the flags of a port on the container and every
// refinement, regardless of which side the change started from.
func (e *edit) setFlags(name string, flags PortFlags) error {
	g := e.c.graph

	if _, found := g.LookupPort(e.origin, name); !found {
		return fmt.Errorf("%w: %s has no port %q",
			ErrPortNotFound, e.originName, name)
	}

	parentPort, found := g.LookupPort(e.c.self, name)
	if !found {
		return fmt.Errorf("%w: %s has no port %q",
			ErrPortNotFound, e.c.name, name)
	}

	g.SetPortFlags(parentPort, flags)
	e.record(HookPosFlagsMirrored, g.Port(parentPort), e.c.self, "")

	for _, rid := range e.c.refinements {
		if pid, found := g.LookupPort(rid, name); found {
			e.mirrorFlags(parentPort, rid, pid)
		}
	}

	return nil
}

// partial lists the refinements that received the port in this edit and
// those still missing it, starting with the one that failed. Refinements that
// already owned the port are in neither list.
func (e *edit) partial(
	name string,
	mirrored []EntityID,
	failedAt int,
	err error,
) error {
	g := e.c.graph
	pe := &PartialMirrorError{Port: name, Err: err}

	for _, rid := range mirrored {
		pe.Mirrored = append(pe.Mirrored, g.Entity(rid).Name)
	}

	for i, rid := range e.c.refinements[failedAt:] {
		if _, found := g.LookupPort(rid, name); found && i > 0 {
			continue
		}

		pe.Pending = append(pe.Pending, g.Entity(rid).Name)
	}

	return pe
}
