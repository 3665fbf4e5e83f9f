// Package simulation wires cases, the engine, the recorder and the monitor
// into one runnable simulation.
package simulation

import (
	"github.com/sarchlab/casesim/caseactor"
	"github.com/sarchlab/casesim/datarecording"
	"github.com/sarchlab/casesim/monitoring"
	"github.com/sarchlab/casesim/sim"
	"github.com/sarchlab/casesim/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id        string
	engine    sim.Engine
	freq      sim.Freq
	maxCycles uint64

	dataRecorder datarecording.DataRecorder
	dbTracer     *tracing.DBTracer
	counter      *tracing.CountTracer
	monitor      *monitoring.Monitor
	monitorPort  int

	cases         []*caseactor.Case
	drivers       []*caseactor.Driver
	caseNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation. It is
// nil if recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil if
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorPort returns the port the monitor listens on, or 0.
func (s *Simulation) MonitorPort() int {
	return s.monitorPort
}

// GetCounter returns the tracer that counts the activity of all cases.
func (s *Simulation) GetCounter() *tracing.CountTracer {
	return s.counter
}

// RegisterCase registers a case with the simulation and creates the driver
// that runs its cycles.
func (s *Simulation) RegisterCase(c *caseactor.Case) *caseactor.Driver {
	name := c.Name()
	if _, found := s.caseNameIndex[name]; found {
		panic("case " + name + " already registered")
	}

	s.cases = append(s.cases, c)
	s.caseNameIndex[name] = len(s.cases) - 1

	tracing.CollectTrace(c, s.counter, s.engine)

	if s.dbTracer != nil {
		tracing.CollectTrace(c, s.dbTracer, s.engine)
	}

	if s.monitor != nil {
		s.monitor.RegisterCase(c)
	}

	d := caseactor.MakeDriverBuilder().
		WithEngine(s.engine).
		WithFreq(s.freq).
		WithMaxCycles(s.maxCycles).
		Build(sim.JoinName(name, "Driver"), c)
	s.drivers = append(s.drivers, d)

	return d
}

// Cases returns the registered cases.
func (s *Simulation) Cases() []*caseactor.Case {
	return s.cases
}

// GetCaseByName returns the case with the given name, or nil.
func (s *Simulation) GetCaseByName(name string) *caseactor.Case {
	i, found := s.caseNameIndex[name]
	if !found {
		return nil
	}

	return s.cases[i]
}

// Drivers returns the drivers of the registered cases.
func (s *Simulation) Drivers() []*caseactor.Driver {
	return s.drivers
}

// Run starts every driver and runs the engine until no events are left.
func (s *Simulation) Run() error {
	if s.monitor != nil && s.maxCycles > 0 {
		s.monitor.TrackCycles(s.maxCycles * uint64(len(s.drivers)))
	}

	for _, d := range s.drivers {
		d.Start()
	}

	err := s.engine.Run()
	s.engine.Finished()

	return err
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() error {
	if s.dataRecorder == nil {
		return nil
	}

	return s.dataRecorder.Close()
}
