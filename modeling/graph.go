package modeling

// EntityID addresses an entity inside an EntityGraph.
type EntityID int

// PortID addresses a port inside an EntityGraph.
type PortID int

// RelationID addresses a relation inside an EntityGraph.
type RelationID int

// NoRelation marks a port that is not linked to any relation.
const NoRelation RelationID = -1

// PortFlags are the direction flags of a port.
type PortFlags struct {
	Input     bool `json:"input" yaml:"input" toml:"input"`
	Output    bool `json:"output" yaml:"output" toml:"output"`
	Multiport bool `json:"multiport" yaml:"multiport" toml:"multiport"`
}

// Commonly used flag combinations.
var (
	Input       = PortFlags{Input: true}
	Output      = PortFlags{Output: true}
	InputOutput = PortFlags{Input: true, Output: true}
)

// String renders the flags in a compact form, e.g. "in,multi".
func (f PortFlags) String() string {
	s := ""

	add := func(part string) {
		if s != "" {
			s += ","
		}

		s += part
	}

	if f.Input {
		add("in")
	}

	if f.Output {
		add("out")
	}

	if f.Multiport {
		add("multi")
	}

	if s == "" {
		return "none"
	}

	return s
}

// Port is a snapshot of a port owned by one entity.
type Port struct {
	ID       PortID
	Name     string
	Owner    EntityID
	Flags    PortFlags
	Relation RelationID
}

// Relation is a snapshot of a relation and the ports it links.
type Relation struct {
	ID      RelationID
	Name    string
	Members []PortID
}

// Entity is a snapshot of an entity and the ports it owns, in creation order.
type Entity struct {
	ID    EntityID
	Name  string
	Ports []PortID
}

// An EntityGraph stores entities, ports and relations, and serializes
// structural edits.
//
// Mutating methods and lookups do not lock on their own. Callers run them
// inside Exclusive for edits or inside View for reads.
type EntityGraph interface {
	// CreateEntity adds an entity that owns no ports.
	CreateEntity(name string) EntityID

	// Entity returns the entity with the given ID.
	Entity(id EntityID) Entity

	// CreatePort creates a port owned by the given entity. It fails with a
	// DuplicateNameError if the entity already owns a port of that name.
	CreatePort(owner EntityID, name string, flags PortFlags) (PortID, error)

	// LookupPort finds a port of an entity by name.
	LookupPort(owner EntityID, name string) (PortID, bool)

	// Port returns the port with the given ID.
	Port(id PortID) Port

	// SetPortFlags replaces the direction flags of a port.
	SetPortFlags(id PortID, flags PortFlags)

	// CreateRelation creates a relation. It fails with a DuplicateNameError
	// if a relation of that name exists.
	CreateRelation(name string) (RelationID, error)

	// LookupRelation finds a relation by name.
	LookupRelation(name string) (RelationID, bool)

	// Relation returns the relation with the given ID.
	Relation(id RelationID) Relation

	// Relations returns all relations in creation order.
	Relations() []Relation

	// Link adds a port to a relation. Linking a port twice to the same
	// relation is a no-op; linking it to a second relation fails.
	Link(port PortID, rel RelationID) error

	// Exclusive runs fn with exclusive write access and bumps the version.
	Exclusive(fn func() error) error

	// View runs fn with shared read access.
	View(fn func())

	// Version counts the exclusive scopes that have completed.
	Version() uint64
}
