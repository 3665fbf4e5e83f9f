package sim

import (
	"fmt"
	"sync"
)

// A SerialEngine handles one event at a time on the calling goroutine.
//
// The queue is only touched by Run and by handlers it calls. Time and the
// pause lock may be used from other goroutines, such as the monitor.
type SerialEngine struct {
	*HookableBase

	queue *EventQueue

	timeLock sync.RWMutex
	now      VTimeInSec

	pauseLock  sync.Mutex
	pausedLock sync.Mutex
	paused     bool

	runLock sync.Mutex

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase: NewHookableBase(),
		queue:        NewEventQueue(),
	}
}

// Schedule queues an event. Scheduling into the past panics.
func (e *SerialEngine) Schedule(evt Event) {
	now := e.CurrentTime()
	if evt.Time() < now {
		panic(fmt.Sprintf(
			"cannot schedule %T at %.10f, now is %.10f", evt, evt.Time(), now))
	}

	e.queue.Push(evt)
}

// CurrentTime returns the time of the event being handled, or of the last
// one handled.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.timeLock.RLock()
	defer e.timeLock.RUnlock()

	return e.now
}

func (e *SerialEngine) setTime(t VTimeInSec) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// Run handles events until the queue is empty. It stops at the first handler
// that returns an error and returns that error.
func (e *SerialEngine) Run() error {
	e.runLock.Lock()
	defer e.runLock.Unlock()

	for e.queue.Len() > 0 {
		if err := e.step(); err != nil {
			return err
		}
	}

	return nil
}

func (e *SerialEngine) step() error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	evt := e.queue.Pop()
	e.setTime(evt.Time())

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	ctx.Detail = err
	e.InvokeHook(ctx)

	return err
}

// Pause stops the engine before its next event. Pausing twice is a no-op.
func (e *SerialEngine) Pause() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if e.paused {
		return
	}

	e.pauseLock.Lock()
	e.paused = true
}

// Continue resumes a paused engine.
func (e *SerialEngine) Continue() {
	e.pausedLock.Lock()
	defer e.pausedLock.Unlock()

	if !e.paused {
		return
	}

	e.paused = false
	e.pauseLock.Unlock()
}

// RegisterSimulationEndHandler adds a handler called by Finished.
func (e *SerialEngine) RegisterSimulationEndHandler(h SimulationEndHandler) {
	e.endHandlers = append(e.endHandlers, h)
}

// Finished calls the end handlers with the final time.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()

	for _, h := range e.endHandlers {
		h.Handle(now)
	}
}
