package sim

// TimeTeller tells the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler accepts events to run later.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler runs once the engine has no more events.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// SimulationEndFunc turns a function into a SimulationEndHandler.
type SimulationEndFunc func(now VTimeInSec)

// Handle calls f.
func (f SimulationEndFunc) Handle(now VTimeInSec) {
	f(now)
}

// An Engine runs scheduled events in time order. It is the outer scheduler
// that drives every case driver.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run handles events until none are left or a handler fails.
	Run() error

	// Pause blocks the engine before the next event.
	Pause()

	// Continue releases a paused engine.
	Continue()

	// RegisterSimulationEndHandler adds a handler called by Finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished calls every registered SimulationEndHandler.
	Finished()
}
