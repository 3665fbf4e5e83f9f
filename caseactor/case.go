package caseactor

import (
	"fmt"

	"github.com/sarchlab/casesim/export"
	"github.com/sarchlab/casesim/modeling"
	"github.com/sarchlab/casesim/sim"
)

// A Case is a component with several alternative refinements that share
// one interface. In every cycle it delegates to exactly one candidate, as if
// the case itself were a single actor.
type Case struct {
	*modeling.MultiComposite

	director *Director
}

// NewCase creates a case that picks candidates with the given chooser.
func NewCase(name string, chooser Chooser) *Case {
	return NewCaseWithGraph(name, chooser, nil)
}

// NewCaseWithGraph creates a case that stores its structure in the given
// entity graph. A nil graph creates a fresh Arena.
func NewCaseWithGraph(
	name string,
	chooser Chooser,
	graph modeling.EntityGraph,
) *Case {
	b := modeling.MakeBuilder()
	if graph != nil {
		b = b.WithGraph(graph)
	}

	return &Case{
		MultiComposite: b.Build(name),
		director:       NewDirector(name, chooser),
	}
}

// AcceptHook registers a hook for both structural edits and cycle events.
func (c *Case) AcceptHook(hook sim.Hook) {
	c.MultiComposite.AcceptHook(hook)
	c.director.AcceptHook(hook)
}

// NewRefinement creates a refinement that mirrors the case's interface and
// registers it as a candidate.
func (c *Case) NewRefinement(
	name string,
	behavior Behavior,
) (*RefinementActor, error) {
	if behavior == nil {
		behavior = BehaviorFuncs{}
	}

	if err := c.candidateNameMustBeFree(name); err != nil {
		return nil, err
	}

	r, err := c.AddRefinement(name)
	if err != nil {
		return nil, err
	}

	actor := &RefinementActor{Refinement: r, behavior: behavior}
	c.director.AddCandidate(actor)

	return actor, nil
}

// AddCandidate registers an atomic actor as a candidate.
func (c *Case) AddCandidate(actor Actor) error {
	if err := c.candidateNameMustBeFree(actor.Name()); err != nil {
		return err
	}

	c.director.AddCandidate(actor)

	return nil
}

// Candidates returns all candidates in registration order.
func (c *Case) Candidates() []Actor {
	return c.director.Candidates()
}

// Chooser returns the chooser of the case.
func (c *Case) Chooser() Chooser {
	return c.director.Chooser()
}

// Select picks the candidate of the cycle and probes its readiness.
func (c *Case) Select() (bool, error) {
	return c.director.Select()
}

// Run executes the chosen candidate.
func (c *Case) Run() error {
	return c.director.Run()
}

// Finalize completes the cycle and returns the continuation signal of the
// chosen candidate.
func (c *Case) Finalize() (bool, error) {
	return c.director.Finalize()
}

// Reset ends the current cycle.
func (c *Case) Reset() {
	c.director.Reset()
}

// State returns the cycle state of the case.
func (c *Case) State() State {
	return c.director.State()
}

// Cycle returns the number of the current cycle.
func (c *Case) Cycle() uint64 {
	return c.director.Cycle()
}

// Choice returns the candidate chosen in the current cycle, or nil.
func (c *Case) Choice() Actor {
	return c.director.Choice()
}

// Describe lists the attributes, ports, relations and children of the case.
func (c *Case) Describe() export.Description {
	relNames := make(map[modeling.RelationID]string)

	d := export.Description{
		Kind: "Case",
		Name: c.Name(),
		Attributes: map[string]string{
			"chooser": chooserName(c.Chooser()),
		},
	}

	for _, rel := range c.Relations() {
		relNames[rel.ID] = rel.Name
		d.Relations = append(d.Relations, rel.Name)
	}

	d.Ports = describePorts(c.Ports(), relNames)

	for _, a := range c.Candidates() {
		switch a := a.(type) {
		case *RefinementActor:
			d.Children = append(d.Children, export.Description{
				Kind:  "Refinement",
				Name:  a.Name(),
				Ports: describePorts(a.Ports(), relNames),
			})
		case export.Describable:
			d.Children = append(d.Children, a.Describe())
		default:
			d.Children = append(d.Children, export.Description{
				Kind: "Actor",
				Name: a.Name(),
			})
		}
	}

	return d
}

func (c *Case) candidateNameMustBeFree(name string) error {
	for _, a := range c.Candidates() {
		if a.Name() == name {
			return &modeling.DuplicateNameError{
				Entity: c.Name(),
				Kind:   "candidate",
				Name:   name,
			}
		}
	}

	return nil
}

func describePorts(
	ports []modeling.Port,
	relNames map[modeling.RelationID]string,
) []export.PortDescription {
	list := make([]export.PortDescription, 0, len(ports))

	for _, p := range ports {
		list = append(list, export.PortDescription{
			Name:      p.Name,
			Input:     p.Flags.Input,
			Output:    p.Flags.Output,
			Multiport: p.Flags.Multiport,
			Relation:  relNames[p.Relation],
		})
	}

	return list
}

func chooserName(ch Chooser) string {
	if s, ok := ch.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", ch)
}
