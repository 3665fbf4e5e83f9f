package sim

// VTimeInSec is a point on the simulated time line, in seconds.
type VTimeInSec float64

// An Event is a handler invocation scheduled at a point in simulated time.
type Event interface {
	Time() VTimeInSec
	Handler() Handler
}

// A Handler owns the events scheduled for it. Handling an event may only
// change the state of its own handler.
type Handler interface {
	Handle(e Event) error
}

// HandlerFunc turns a function into a Handler.
type HandlerFunc func(e Event) error

// Handle calls f.
func (f HandlerFunc) Handle(e Event) error {
	return f(e)
}

// EventBase carries the fields every event needs. Concrete events embed it.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// MakeEventBase creates an EventBase with a fresh ID.
func MakeEventBase(t VTimeInSec, handler Handler) EventBase {
	return EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}
