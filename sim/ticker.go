package sim

import "sync"

// TickEvent asks a ticking component to run one cycle.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent.
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	return TickEvent{EventBase: MakeEventBase(time, handler)}
}

// A Ticker runs one cycle per tick.
type Ticker interface {
	// Tick runs one cycle and reports whether progress was made. An error
	// stops the engine.
	Tick() (bool, error)
}

// A TickScheduler schedules tick events for one handler on clock edges. At
// most one tick is pending at a time.
type TickScheduler struct {
	lock    sync.Mutex
	handler Handler
	engine  Engine
	freq    Freq

	// pending is the time of the latest scheduled tick, -1 before the first.
	pending VTimeInSec
}

// NewTickScheduler creates a TickScheduler.
func NewTickScheduler(handler Handler, engine Engine, freq Freq) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		engine:  engine,
		freq:    freq,
		pending: -1,
	}
}

// TickNow schedules a tick on the current clock edge, or on the next one if
// the engine is between edges.
func (t *TickScheduler) TickNow() {
	t.scheduleAt(t.freq.ThisTick(t.engine.CurrentTime()))
}

// TickLater schedules a tick on the edge after the current time.
func (t *TickScheduler) TickLater() {
	t.scheduleAt(t.freq.NextTick(t.engine.CurrentTime()))
}

func (t *TickScheduler) scheduleAt(at VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.pending >= at {
		return
	}

	t.pending = at
	t.engine.Schedule(MakeTickEvent(t.handler, at))
}

// Freq returns the clock frequency.
func (t *TickScheduler) Freq() Freq {
	return t.freq
}

// A TickingComponent calls its Ticker on every tick and keeps ticking while
// the Ticker makes progress.
type TickingComponent struct {
	*HookableBase
	*TickScheduler

	name   string
	ticker Ticker
}

// NewTickingComponent creates a TickingComponent.
func NewTickingComponent(
	name string,
	engine Engine,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	NameMustBeValid(name)

	tc := &TickingComponent{
		HookableBase: NewHookableBase(),
		name:         name,
		ticker:       ticker,
	}
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)

	return tc
}

// Name returns the name of the component.
func (c *TickingComponent) Name() string {
	return c.name
}

// Handle runs one tick.
func (c *TickingComponent) Handle(_ Event) error {
	progress, err := c.ticker.Tick()
	if err != nil {
		return err
	}

	if progress {
		c.TickLater()
	}

	return nil
}
