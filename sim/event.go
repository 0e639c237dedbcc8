package sim

// VTimeInSec is a point in simulated time, measured in seconds.
type VTimeInSec float64

// An Event is something scheduled to happen at a given simulated time.
type Event interface {
	// Time returns the time at which the event fires.
	Time() VTimeInSec

	// Handler returns the object that processes the event.
	Handler() Handler
}

// A Handler processes events that were scheduled for it.
type Handler interface {
	Handle(e Event) error
}

// EventBase carries the fields shared by all events.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates an EventBase with a freshly generated ID.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns the time at which the event fires.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}
