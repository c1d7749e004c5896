package timing

import (
	"log"
	"reflect"

	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/naming"
)

// OwnedEvent is an event that is delivered on behalf of another object, such
// as a timer that belongs to a component.
type OwnedEvent interface {
	Event
	Owner() naming.Named
}

// EventLogger is a hook that prints the event information.
type EventLogger struct {
	*log.Logger
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if owned, ok := evt.(OwnedEvent); ok && owned.Owner() != nil {
		h.Printf("%s, %s -> %s",
			evt.Time(), reflect.TypeOf(evt), owned.Owner().Name())

		return
	}

	if named, ok := evt.Handler().(naming.Named); ok {
		h.Printf("%s, %s -> %s",
			evt.Time(), reflect.TypeOf(evt), named.Name())

		return
	}

	h.Printf("%s, %s", evt.Time(), reflect.TypeOf(evt))
}
