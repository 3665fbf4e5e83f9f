package caseactor

import (
	"github.com/sarchlab/casesim/sim"
)

// HookPosDriverStopped marks a driver that stopped ticking. The hook item is
// the StopReason.
var HookPosDriverStopped = &sim.HookPos{Name: "Driver Stopped"}

// StopReason tells why a driver stopped.
type StopReason string

// Stop reasons.
const (
	StopNone           StopReason = ""
	StopRequested      StopReason = "requested"
	StopCycleLimit     StopReason = "cycle limit"
	StopCandidateError StopReason = "candidate error"
)

// A Driver plays the outer scheduler for one case. Every tick it runs one
// full cycle of select, run and finalize.
type Driver struct {
	*sim.TickingComponent

	c         *Case
	maxCycles uint64
	cycles    uint64
	stopped   StopReason
}

// DriverBuilder builds Drivers.
type DriverBuilder struct {
	engine    sim.Engine
	freq      sim.Freq
	maxCycles uint64
}

// MakeDriverBuilder creates a DriverBuilder with default parameters.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine that schedules the ticks.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the cycle frequency.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithMaxCycles limits the number of cycles. Zero means no limit.
func (b DriverBuilder) WithMaxCycles(n uint64) DriverBuilder {
	b.maxCycles = n
	return b
}

// Build creates a Driver for the given case.
func (b DriverBuilder) Build(name string, c *Case) *Driver {
	if b.engine == nil {
		panic("driver requires an engine")
	}

	d := &Driver{
		c:         c,
		maxCycles: b.maxCycles,
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}

// Case returns the driven case.
func (d *Driver) Case() *Case {
	return d.c
}

// Start schedules the first cycle.
func (d *Driver) Start() {
	d.TickNow()
}

// Cycles returns the number of cycles the driver has run.
func (d *Driver) Cycles() uint64 {
	return d.cycles
}

// Stopped returns why the driver stopped, or StopNone if it is still
// running.
func (d *Driver) Stopped() StopReason {
	return d.stopped
}

// Tick runs one cycle of the case.
func (d *Driver) Tick() (bool, error) {
	if d.stopped != StopNone {
		return false, nil
	}

	if d.maxCycles > 0 && d.cycles >= d.maxCycles {
		d.stop(StopCycleLimit)
		return false, nil
	}

	if d.c.State() != StateIdle {
		d.c.Reset()
	}

	d.cycles++

	cont, err := d.cycle()
	if err != nil {
		d.stop(StopCandidateError)
		return false, err
	}

	if !cont {
		d.stop(StopRequested)
		return false, nil
	}

	return true, nil
}

func (d *Driver) cycle() (bool, error) {
	ready, err := d.c.Select()
	if err != nil {
		return false, err
	}

	if !ready {
		return true, nil
	}

	err = d.c.Run()
	if err != nil {
		return false, err
	}

	return d.c.Finalize()
}

func (d *Driver) stop(reason StopReason) {
	d.stopped = reason

	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    HookPosDriverStopped,
		Item:   reason,
		Detail: d.cycles,
	})
}
