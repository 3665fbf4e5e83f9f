package modelfile

import (
	"fmt"

	"github.com/sarchlab/casesim/caseactor"
)

// Build creates the case described by the spec. Ports declared on the case
// are added before the refinements, so each refinement starts with the full
// interface. Ports declared on a refinement are broadcast to the case and to
// the siblings that already exist. Redeclaring a mirrored port with other
// flags is an error.
func Build(spec Spec) (*caseactor.Case, error) {
	c := caseactor.NewCase(spec.Name, newChooser(spec.Chooser))

	for _, p := range spec.Ports {
		flags, err := p.Flags()
		if err != nil {
			return nil, err
		}

		if _, err := c.AddPort(p.Name, flags); err != nil {
			return nil, fmt.Errorf("case %s: %w", spec.Name, err)
		}
	}

	for _, rs := range spec.Refinements {
		r, err := c.NewRefinement(rs.Name, newScript(rs))
		if err != nil {
			return nil, err
		}

		for _, p := range rs.Ports {
			flags, err := p.Flags()
			if err != nil {
				return nil, err
			}

			if existing, found := r.PortByName(p.Name); found {
				if existing.Flags != flags {
					return nil, fmt.Errorf(
						"refinement %s: port %s is declared as %s, "+
							"but the interface has %s",
						rs.Name, p.Name, flags, existing.Flags)
				}

				continue
			}

			if _, err := r.AddPort(p.Name, flags); err != nil {
				return nil, fmt.Errorf("refinement %s: %w", rs.Name, err)
			}
		}
	}

	return c, nil
}

func newChooser(spec ChooserSpec) caseactor.Chooser {
	switch spec.Kind {
	case ChooserSequence:
		return caseactor.NewSequence(spec.Sequence...)
	case ChooserByControl:
		ch := caseactor.NewByControl(spec.Default)
		ch.SetControl(spec.Control)

		return ch
	default:
		return caseactor.NewRoundRobin()
	}
}

// script is the behavior of a refinement declared in a model file.
type script struct {
	stopAfter  int
	readyEvery int

	probes int
	runs   int
}

func newScript(spec RefinementSpec) *script {
	readyEvery := spec.ReadyEvery
	if readyEvery < 1 {
		readyEvery = 1
	}

	return &script{
		stopAfter:  spec.StopAfter,
		readyEvery: readyEvery,
	}
}

func (s *script) Ready() (bool, error) {
	s.probes++
	return s.probes%s.readyEvery == 0, nil
}

func (s *script) Execute() error {
	s.runs++
	return nil
}

func (s *script) Finalize() (bool, error) {
	return s.stopAfter == 0 || s.runs < s.stopAfter, nil
}
