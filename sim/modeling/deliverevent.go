package modeling

import (
	"log"

	"github.com/sarchlab/pktflow/sim/timing"
)

// DeliverEvent hands a payload to the component at the end of a path. It
// fires when the last bit arrives: the send time plus the path delay plus
// the duration of the payload.
type DeliverEvent struct {
	*timing.EventBase

	Payload     any
	ArrivalGate *Gate
	SendTime    timing.VTime
	Duration    timing.VTime
}

// Send delivers the payload through the output gate. It panics if the path
// is not usable; callers check IsPathUsable first and drop instead.
func Send(
	engine timing.EventScheduler,
	out *Gate,
	payload any,
	duration timing.VTime,
) *DeliverEvent {
	if !IsPathUsable(out) {
		log.Panicf("cannot send on gate %s, the path is not usable",
			out.Name())
	}

	end := PathEndGate(out)
	now := engine.CurrentTime()
	arrival := now + PathDelay(out) + duration

	evt := &DeliverEvent{
		EventBase:   timing.NewEventBase(arrival, end.Owner().(Component)),
		Payload:     payload,
		ArrivalGate: end,
		SendTime:    now,
		Duration:    duration,
	}

	engine.Schedule(evt)

	return evt
}
