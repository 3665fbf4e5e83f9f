// Package modelfile loads case models from TOML or YAML files.
package modelfile

import (
	"errors"
	"fmt"

	"github.com/sarchlab/casesim/modeling"
)

// Chooser kinds.
const (
	ChooserSequence   = "sequence"
	ChooserRoundRobin = "round-robin"
	ChooserByControl  = "by-control"
)

// Spec is a case model.
type Spec struct {
	Name        string           `mapstructure:"name"`
	Chooser     ChooserSpec      `mapstructure:"chooser"`
	Ports       []PortSpec       `mapstructure:"ports"`
	Refinements []RefinementSpec `mapstructure:"refinements"`
}

// ChooserSpec selects and configures the chooser of the case.
type ChooserSpec struct {
	Kind     string   `mapstructure:"kind"`
	Sequence []string `mapstructure:"sequence"`
	Default  string   `mapstructure:"default"`
	Control  string   `mapstructure:"control"`
}

// PortSpec is a port declared on the case or on a refinement.
type PortSpec struct {
	Name      string `mapstructure:"name"`
	Direction string `mapstructure:"direction"`
	Multiport bool   `mapstructure:"multiport"`
}

// RefinementSpec is a refinement and its scripted behavior.
type RefinementSpec struct {
	Name  string     `mapstructure:"name"`
	Ports []PortSpec `mapstructure:"ports"`

	// StopAfter makes the refinement ask to stop after it ran that many
	// times. Zero never stops.
	StopAfter int `mapstructure:"stop_after"`

	// ReadyEvery makes the refinement ready only on every n-th probe.
	ReadyEvery int `mapstructure:"ready_every"`
}

// Flags converts the direction of the port to port flags.
func (p PortSpec) Flags() (modeling.PortFlags, error) {
	var flags modeling.PortFlags

	switch p.Direction {
	case "input":
		flags = modeling.Input
	case "output":
		flags = modeling.Output
	case "inout":
		flags = modeling.InputOutput
	default:
		return flags, fmt.Errorf("port %s: unknown direction %q",
			p.Name, p.Direction)
	}

	flags.Multiport = p.Multiport

	return flags, nil
}

func (s *Spec) applyDefaults() {
	if s.Chooser.Kind == "" {
		s.Chooser.Kind = ChooserRoundRobin
	}

	for i := range s.Ports {
		s.Ports[i].applyDefaults()
	}

	for i := range s.Refinements {
		r := &s.Refinements[i]
		if r.ReadyEvery == 0 {
			r.ReadyEvery = 1
		}

		for j := range r.Ports {
			r.Ports[j].applyDefaults()
		}
	}
}

func (p *PortSpec) applyDefaults() {
	if p.Direction == "" {
		p.Direction = "input"
	}
}

// Validate checks the spec for errors. All problems are reported together.
func (s Spec) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("case name is missing"))
	}

	refinements := make(map[string]bool)

	for _, r := range s.Refinements {
		if r.Name == "" {
			errs = append(errs, errors.New("refinement name is missing"))
			continue
		}

		if refinements[r.Name] {
			errs = append(errs, fmt.Errorf("refinement %s is declared twice", r.Name))
		}

		refinements[r.Name] = true

		if r.StopAfter < 0 || r.ReadyEvery < 1 {
			errs = append(errs, fmt.Errorf(
				"refinement %s: stop_after must not be negative and "+
					"ready_every must be positive", r.Name))
		}

		errs = append(errs, validatePorts(r.Ports)...)
	}

	errs = append(errs, validatePorts(s.Ports)...)
	errs = append(errs, s.validateInterface()...)
	errs = append(errs, s.Chooser.validate(refinements)...)

	return errors.Join(errs...)
}

func validatePorts(ports []PortSpec) []error {
	var errs []error

	for _, p := range ports {
		if p.Name == "" {
			errs = append(errs, errors.New("port name is missing"))
			continue
		}

		if _, err := p.Flags(); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// validateInterface checks that every declaration of a port name agrees
// with the first one, since the case and all refinements share one
// interface. Case ports are declared first, then refinements in order.
func (s Spec) validateInterface() []error {
	var errs []error

	declared := make(map[string]modeling.PortFlags)

	check := func(owner string, ports []PortSpec) {
		seen := make(map[string]bool)

		for _, p := range ports {
			flags, err := p.Flags()
			if p.Name == "" || err != nil {
				continue
			}

			if seen[p.Name] {
				errs = append(errs, fmt.Errorf(
					"%s: port %s is declared twice", owner, p.Name))
				continue
			}

			seen[p.Name] = true

			if err := flagsMustMatch(owner, p.Name, declared, flags); err != nil {
				errs = append(errs, err)
				continue
			}

			declared[p.Name] = flags
		}
	}

	check("case "+s.Name, s.Ports)

	for _, r := range s.Refinements {
		check("refinement "+r.Name, r.Ports)
	}

	return errs
}

func flagsMustMatch(
	owner, name string,
	declared map[string]modeling.PortFlags,
	flags modeling.PortFlags,
) error {
	existing, found := declared[name]
	if !found || existing == flags {
		return nil
	}

	return fmt.Errorf("%s: port %s is declared as %s, but the interface has %s",
		owner, name, flags, existing)
}

func (c ChooserSpec) validate(refinements map[string]bool) []error {
	var errs []error

	switch c.Kind {
	case ChooserSequence:
		if len(c.Sequence) == 0 {
			errs = append(errs, errors.New("sequence chooser has no sequence"))
		}

		for _, name := range c.Sequence {
			if name != "" && !refinements[name] {
				errs = append(errs, fmt.Errorf(
					"sequence refers to unknown refinement %q", name))
			}
		}
	case ChooserRoundRobin:
	case ChooserByControl:
		if c.Default != "" && !refinements[c.Default] {
			errs = append(errs, fmt.Errorf(
				"default refinement %q is unknown", c.Default))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown chooser kind %q", c.Kind))
	}

	return errs
}
