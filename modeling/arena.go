package modeling

import (
	"fmt"
	"sync"
)

type arenaEntity struct {
	name      string
	ports     []PortID
	portIndex map[string]PortID
}

// Arena is the in-memory EntityGraph. Entities, ports and relations live in
// flat tables and refer to each other by index.
type Arena struct {
	lock    sync.RWMutex
	version uint64

	entities      []*arenaEntity
	ports         []Port
	relations     []Relation
	relationIndex map[string]RelationID
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{
		relationIndex: make(map[string]RelationID),
	}
}

var _ EntityGraph = (*Arena)(nil)

// CreateEntity adds an entity that owns no ports.
func (a *Arena) CreateEntity(name string) EntityID {
	a.entities = append(a.entities, &arenaEntity{
		name:      name,
		portIndex: make(map[string]PortID),
	})

	return EntityID(len(a.entities) - 1)
}

// Entity returns the entity with the given ID.
func (a *Arena) Entity(id EntityID) Entity {
	e := a.entityMustExist(id)

	ports := make([]PortID, len(e.ports))
	copy(ports, e.ports)

	return Entity{ID: id, Name: e.name, Ports: ports}
}

// CreatePort creates a port owned by the given entity.
func (a *Arena) CreatePort(
	owner EntityID,
	name string,
	flags PortFlags,
) (PortID, error) {
	e := a.entityMustExist(owner)

	if _, found := e.portIndex[name]; found {
		return 0, &DuplicateNameError{Entity: e.name, Kind: "port", Name: name}
	}

	id := PortID(len(a.ports))
	a.ports = append(a.ports, Port{
		ID:       id,
		Name:     name,
		Owner:    owner,
		Flags:    flags,
		Relation: NoRelation,
	})

	e.ports = append(e.ports, id)
	e.portIndex[name] = id

	return id, nil
}

// LookupPort finds a port of an entity by name.
func (a *Arena) LookupPort(owner EntityID, name string) (PortID, bool) {
	e := a.entityMustExist(owner)
	id, found := e.portIndex[name]

	return id, found
}

// Port returns the port with the given ID.
func (a *Arena) Port(id PortID) Port {
	a.portMustExist(id)
	return a.ports[id]
}

// SetPortFlags replaces the direction flags of a port.
func (a *Arena) SetPortFlags(id PortID, flags PortFlags) {
	a.portMustExist(id)
	a.ports[id].Flags = flags
}

// CreateRelation creates a relation.
func (a *Arena) CreateRelation(name string) (RelationID, error) {
	if _, found := a.relationIndex[name]; found {
		return 0, &DuplicateNameError{Entity: "graph", Kind: "relation", Name: name}
	}

	id := RelationID(len(a.relations))
	a.relations = append(a.relations, Relation{ID: id, Name: name})
	a.relationIndex[name] = id

	return id, nil
}

// LookupRelation finds a relation by name.
func (a *Arena) LookupRelation(name string) (RelationID, bool) {
	id, found := a.relationIndex[name]
	return id, found
}

// Relation returns the relation with the given ID.
func (a *Arena) Relation(id RelationID) Relation {
	a.relationMustExist(id)

	r := a.relations[id]
	members := make([]PortID, len(r.Members))
	copy(members, r.Members)
	r.Members = members

	return r
}

// Relations returns all relations in creation order.
func (a *Arena) Relations() []Relation {
	list := make([]Relation, 0, len(a.relations))
	for i := range a.relations {
		list = append(list, a.Relation(RelationID(i)))
	}

	return list
}

// Link adds a port to a relation.
func (a *Arena) Link(port PortID, rel RelationID) error {
	a.portMustExist(port)
	a.relationMustExist(rel)

	p := &a.ports[port]
	if p.Relation == rel {
		return nil
	}

	if p.Relation != NoRelation {
		return fmt.Errorf("port %q is already linked to %q",
			p.Name, a.relations[p.Relation].Name)
	}

	p.Relation = rel
	a.relations[rel].Members = append(a.relations[rel].Members, port)

	return nil
}

// Exclusive runs fn with exclusive write access. The version is bumped
// whether or not fn fails.
func (a *Arena) Exclusive(fn func() error) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	err := fn()
	a.version++

	return err
}

// View runs fn with shared read access.
func (a *Arena) View(fn func()) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	fn()
}

// Version counts the exclusive scopes that have completed.
func (a *Arena) Version() uint64 {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.version
}

func (a *Arena) entityMustExist(id EntityID) *arenaEntity {
	if id < 0 || int(id) >= len(a.entities) {
		panic(fmt.Sprintf("entity %d does not exist", id))
	}

	return a.entities[id]
}

func (a *Arena) portMustExist(id PortID) {
	if id < 0 || int(id) >= len(a.ports) {
		panic(fmt.Sprintf("port %d does not exist", id))
	}
}

func (a *Arena) relationMustExist(id RelationID) {
	if id < 0 || int(id) >= len(a.relations) {
		panic(fmt.Sprintf("relation %d does not exist", id))
	}
}
