package sim

// TimeTeller reports the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler accepts events to be fired in the future.
type EventScheduler interface {
	Schedule(e Event)
}

// An Engine drives a discrete event simulation.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run processes events until none is left.
	Run() error

	// Pause blocks the engine before the next event is handled. It returns
	// once the event in flight, if any, has finished.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// Paused tells whether Pause was called without a matching Continue.
	Paused() bool
}
