package modeling

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/casesim/sim"
)

// RelationSuffix is appended to a port name to form the name of the relation
// that links all ports of that name.
const RelationSuffix = "Relation"

// RelationName returns the name of the relation that links ports named
// portName.
func RelationName(portName string) string {
	return portName + RelationSuffix
}

// MultiComposite is a container that holds several refinements sharing one
// interface.
type MultiComposite struct {
	*sim.HookableBase

	name  string
	graph EntityGraph
	self  EntityID

	refinements     []EntityID
	refinementIndex map[string]EntityID
}

// Builder builds MultiComposites.
type Builder struct {
	graph EntityGraph
}

// MakeBuilder creates a Builder that uses a fresh Arena for every container.
func MakeBuilder() Builder {
	return Builder{}
}

// WithGraph sets the entity graph the container stores its structure in. The
// graph must be empty and dedicated to one container.
func (b Builder) WithGraph(graph EntityGraph) Builder {
	b.graph = graph
	return b
}

// Build creates a MultiComposite.
func (b Builder) Build(name string) *MultiComposite {
	sim.NameMustBeValid(name)

	graph := b.graph
	if graph == nil {
		graph = NewArena()
	}

	c := &MultiComposite{
		HookableBase:    sim.NewHookableBase(),
		name:            name,
		graph:           graph,
		refinementIndex: make(map[string]EntityID),
	}

	_ = graph.Exclusive(func() error {
		c.self = graph.CreateEntity(name)
		return nil
	})

	return c
}

// NewMultiComposite creates a MultiComposite backed by its own Arena.
func NewMultiComposite(name string) *MultiComposite {
	return MakeBuilder().Build(name)
}

// Name returns the name of the container.
func (c *MultiComposite) Name() string {
	return c.name
}

// Graph returns the entity graph of the container.
func (c *MultiComposite) Graph() EntityGraph {
	return c.graph
}

// ID returns the entity ID of the container itself.
func (c *MultiComposite) ID() EntityID {
	return c.self
}

// Version returns the structural version of the container.
func (c *MultiComposite) Version() uint64 {
	return c.graph.Version()
}

// AddPort creates a port on the container and mirrors it onto every
// refinement that does not own a port of that name yet.
func (c *MultiComposite) AddPort(name string, flags PortFlags) (Port, error) {
	if err := portNameMustBeValid(name); err != nil {
		return Port{}, err
	}

	var port Port

	err := c.commit(c.self, func(e *edit) error {
		id, err := e.addPort(name, flags)
		if err != nil {
			return err
		}

		port = c.graph.Port(id)

		return nil
	})

	return port, err
}

// SetPortFlags changes the direction flags of a container port and mirrors
// them onto all refinements.
func (c *MultiComposite) SetPortFlags(name string, flags PortFlags) error {
	return c.commit(c.self, func(e *edit) error {
		return e.setFlags(name, flags)
	})
}

// AddRefinement creates a refinement and attaches it to the container. On a
// *PartialMirrorError the refinement is attached but not returned; it can be
// looked up with Refinement.
func (c *MultiComposite) AddRefinement(name string) (*Refinement, error) {
	r := NewDetachedRefinement(name)

	err := c.Attach(r)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Attach moves a detached refinement into the container. The container's
// interface is mirrored onto the newcomer, and ports that only the newcomer
// owned are broadcast to the container and all siblings.
//
// If mirroring fails, a *PartialMirrorError is returned and the refinement
// stays attached with the ports mirrored so far.
func (c *MultiComposite) Attach(r *Refinement) error {
	if r == nil {
		return &InvalidContainerError{Refinement: "<nil>", Reason: "nil refinement"}
	}

	if !r.IsDetached() {
		return &InvalidContainerError{
			Refinement: r.name,
			Reason:     "already attached to " + r.container.name,
		}
	}

	localPorts := r.detachedPorts()
	e := &edit{c: c}
	attached := false

	err := c.graph.Exclusive(func() error {
		if _, found := c.refinementIndex[r.name]; found {
			return &DuplicateNameError{
				Entity: c.name, Kind: "refinement", Name: r.name}
		}

		id := c.graph.CreateEntity(r.name)
		c.refinements = append(c.refinements, id)
		c.refinementIndex[r.name] = id
		attached = true

		e.origin = id
		e.originName = r.name
		e.record(HookPosRefinementAttached, r, id, "")

		if err := e.mirrorInterface(id); err != nil {
			return err
		}

		for _, p := range localPorts {
			if _, found := c.graph.LookupPort(c.self, p.Name); found {
				continue
			}

			if _, err := e.addPort(p.Name, p.Flags); err != nil {
				return err
			}
		}

		return nil
	})

	if attached {
		r.attach(c, e.origin)
	}

	c.emit(e)

	return err
}

// Ports returns the ports of the container sorted by name.
func (c *MultiComposite) Ports() []Port {
	return c.entityPorts(c.self)
}

// PortByName returns the container port with the given name.
func (c *MultiComposite) PortByName(name string) (Port, bool) {
	return c.entityPortByName(c.self, name)
}

// Relations returns all relations of the container in creation order.
func (c *MultiComposite) Relations() []Relation {
	var list []Relation

	c.graph.View(func() {
		list = c.graph.Relations()
	})

	return list
}

// RelationByName returns the relation with the given name.
func (c *MultiComposite) RelationByName(name string) (Relation, bool) {
	var (
		rel   Relation
		found bool
	)

	c.graph.View(func() {
		var id RelationID

		id, found = c.graph.LookupRelation(name)
		if found {
			rel = c.graph.Relation(id)
		}
	})

	return rel, found
}

// LinkedPorts returns the ports linked by the relation with the given name.
func (c *MultiComposite) LinkedPorts(relationName string) []Port {
	var list []Port

	c.graph.View(func() {
		id, found := c.graph.LookupRelation(relationName)
		if !found {
			return
		}

		for _, pid := range c.graph.Relation(id).Members {
			list = append(list, c.graph.Port(pid))
		}
	})

	return list
}

// Refinements returns handles to all refinements in attach order.
func (c *MultiComposite) Refinements() []*Refinement {
	var list []*Refinement

	c.graph.View(func() {
		for _, id := range c.refinements {
			list = append(list, c.handle(id))
		}
	})

	return list
}

// Refinement returns the refinement with the given name.
func (c *MultiComposite) Refinement(name string) (*Refinement, bool) {
	var (
		r     *Refinement
		found bool
	)

	c.graph.View(func() {
		var id EntityID

		id, found = c.refinementIndex[name]
		if found {
			r = c.handle(id)
		}
	})

	return r, found
}

// EntityName returns the name of an entity of this container.
func (c *MultiComposite) EntityName(id EntityID) string {
	var name string

	c.graph.View(func() {
		name = c.graph.Entity(id).Name
	})

	return name
}

func (c *MultiComposite) handle(id EntityID) *Refinement {
	return &Refinement{
		name:      c.graph.Entity(id).Name,
		container: c,
		id:        id,
	}
}

func (c *MultiComposite) entityPorts(id EntityID) []Port {
	var list []Port

	c.graph.View(func() {
		list = portsOf(c.graph, id)
	})

	return list
}

func (c *MultiComposite) entityPortByName(id EntityID, name string) (Port, bool) {
	var (
		port  Port
		found bool
	)

	c.graph.View(func() {
		var pid PortID

		pid, found = c.graph.LookupPort(id, name)
		if found {
			port = c.graph.Port(pid)
		}
	})

	return port, found
}

// commit runs an edit in the exclusive scope of the graph and reports its
// steps to the hooks once the scope is released. Steps that happened before
// a failure are still reported.
func (c *MultiComposite) commit(origin EntityID, fn func(e *edit) error) error {
	e := &edit{c: c, origin: origin}

	err := c.graph.Exclusive(func() error {
		e.originName = c.graph.Entity(origin).Name
		return fn(e)
	})

	c.emit(e)

	return err
}

func (c *MultiComposite) emit(e *edit) {
	for _, step := range e.steps {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    step.pos,
			Item:   step.item,
			Detail: step.detail,
		})
	}
}

func portsOf(g EntityGraph, id EntityID) []Port {
	ids := g.Entity(id).Ports

	list := make([]Port, 0, len(ids))
	for _, pid := range ids {
		list = append(list, g.Port(pid))
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list
}

func portNameMustBeValid(name string) error {
	if name == "" || strings.ContainsAny(name, ". ") {
		return fmt.Errorf("invalid port name %q", name)
	}

	return nil
}
