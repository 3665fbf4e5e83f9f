package modeling

import (
	"github.com/sarchlab/casesim/sim"
)

// Refinement is a handle to one alternative implementation of a
// MultiComposite's interface.
//
// An attached refinement is an entity inside its container's graph. A
// detached refinement keeps its ports in a private Arena until it is
// attached.
type Refinement struct {
	name      string
	container *MultiComposite
	id        EntityID
	local     *Arena
}

// NewDetachedRefinement creates a refinement that has no container yet.
func NewDetachedRefinement(name string) *Refinement {
	sim.NameMustBeValid(name)

	local := NewArena()

	return &Refinement{
		name:  name,
		id:    local.CreateEntity(name),
		local: local,
	}
}

// NewRefinement creates a refinement under the given container. The
// container must be a *MultiComposite.
func NewRefinement(container sim.Named, name string) (*Refinement, error) {
	c, ok := container.(*MultiComposite)
	if !ok || c == nil {
		return nil, &InvalidContainerError{
			Refinement: name,
			Reason:     "container is not a multi-composite",
		}
	}

	return c.AddRefinement(name)
}

// Name returns the name of the refinement.
func (r *Refinement) Name() string {
	return r.name
}

// FullName returns the name of the refinement qualified by its container.
func (r *Refinement) FullName() string {
	if r.container == nil {
		return r.name
	}

	return sim.JoinName(r.container.name, r.name)
}

// ID returns the entity ID of the refinement within its current graph.
func (r *Refinement) ID() EntityID {
	return r.id
}

// Container returns the container of the refinement, or nil while detached.
func (r *Refinement) Container() *MultiComposite {
	return r.container
}

// IsDetached tells whether the refinement has no container.
func (r *Refinement) IsDetached() bool {
	return r.container == nil
}

// AddPort creates a port on the refinement. When attached, the port is
// broadcast to the container and every sibling, and the refinement's own port
// is returned.
func (r *Refinement) AddPort(name string, flags PortFlags) (Port, error) {
	if err := portNameMustBeValid(name); err != nil {
		return Port{}, err
	}

	if r.IsDetached() {
		var id PortID

		err := r.local.Exclusive(func() error {
			var createErr error

			id, createErr = r.local.CreatePort(r.id, name, flags)

			return createErr
		})
		if err != nil {
			return Port{}, err
		}

		return r.local.Port(id), nil
	}

	c := r.container

	var port Port

	err := c.commit(r.id, func(e *edit) error {
		id, err := e.addPort(name, flags)
		if err != nil {
			return err
		}

		port = c.graph.Port(id)

		return nil
	})

	return port, err
}

// SetPortFlags changes the flags of one of the refinement's ports. When
// attached, the change is applied to the container and every sibling.
func (r *Refinement) SetPortFlags(name string, flags PortFlags) error {
	if r.IsDetached() {
		return r.local.Exclusive(func() error {
			id, found := r.local.LookupPort(r.id, name)
			if !found {
				return ErrPortNotFound
			}

			r.local.SetPortFlags(id, flags)

			return nil
		})
	}

	return r.container.commit(r.id, func(e *edit) error {
		return e.setFlags(name, flags)
	})
}

// Ports returns the ports of the refinement sorted by name.
func (r *Refinement) Ports() []Port {
	if r.IsDetached() {
		return r.detachedPorts()
	}

	return r.container.entityPorts(r.id)
}

// PortByName returns the refinement port with the given name.
func (r *Refinement) PortByName(name string) (Port, bool) {
	if r.IsDetached() {
		for _, p := range r.detachedPorts() {
			if p.Name == name {
				return p, true
			}
		}

		return Port{}, false
	}

	return r.container.entityPortByName(r.id, name)
}

func (r *Refinement) detachedPorts() []Port {
	var list []Port

	r.local.View(func() {
		list = portsOf(r.local, r.id)
	})

	return list
}

func (r *Refinement) attach(c *MultiComposite, id EntityID) {
	r.container = c
	r.id = id
	r.local = nil
}
