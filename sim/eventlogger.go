package sim

import (
	"log"
	"reflect"
)

// EventLogger is a hook that logs every event an engine is about to handle.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger creates an EventLogger that writes to logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func logs the time, type and handler of the event.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	handler := "<anonymous>"
	if named, ok := evt.Handler().(Named); ok {
		handler = named.Name()
	}

	h.Printf("%.6f %s -> %s", evt.Time(), reflect.TypeOf(evt).Name(), handler)
}
