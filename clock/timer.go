package clock

import (
	"github.com/sarchlab/pktflow/sim/naming"
	"github.com/sarchlab/pktflow/sim/timing"
)

// A Timer is a reusable clock event. A component creates its timers once and
// schedules them again and again, so a pending timer can always be found and
// cancelled.
//
// The engine hands a fired timer back to the timer itself, which marks it as
// no longer scheduled before calling the owner.
type Timer struct {
	name      string
	owner     naming.Named
	handler   timing.Handler
	secondary bool

	scheduled    bool
	arrivalTime  timing.VTime
	arrivalClock Time
}

// NewTimer creates a timer that is handled by the given handler. The owner
// is used for logging.
func NewTimer(name string, owner naming.Named, handler timing.Handler) *Timer {
	return &Timer{
		name:        name,
		owner:       owner,
		handler:     handler,
		arrivalTime: timing.Never,
	}
}

// NewSecondaryTimer creates a timer that fires after the primary events of
// the same time.
func NewSecondaryTimer(
	name string,
	owner naming.Named,
	handler timing.Handler,
) *Timer {
	t := NewTimer(name, owner, handler)
	t.secondary = true

	return t
}

// Name returns the name of the timer.
func (t *Timer) Name() string {
	return t.name
}

// Owner returns the object that owns the timer.
func (t *Timer) Owner() naming.Named {
	return t.owner
}

// Time returns the global time the timer fires at.
func (t *Timer) Time() timing.VTime {
	return t.arrivalTime
}

// ArrivalClockTime returns the local clock reading the timer fires at.
func (t *Timer) ArrivalClockTime() Time {
	return t.arrivalClock
}

// Handler returns the timer itself so that the timer state is updated before
// the owner sees the event.
func (t *Timer) Handler() timing.Handler {
	return t
}

// IsSecondary tells if the timer fires after primary events.
func (t *Timer) IsSecondary() bool {
	return t.secondary
}

// IsScheduled checks if the timer is pending.
func (t *Timer) IsScheduled() bool {
	return t.scheduled
}

// Handle marks the timer as fired and passes it to the owner's handler.
func (t *Timer) Handle(_ timing.Event) error {
	t.scheduled = false

	return t.handler.Handle(t)
}
