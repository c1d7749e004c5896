package transceiver

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

// PacketReceiver takes signals off a link once they have fully arrived and
// pushes the packets downstream. A signal cut off by the transmitter never
// arrives; its SignalAbort does, and the packet is reported dropped.
type PacketReceiver struct {
	modeling.ComponentBase

	engine timing.TimeTeller
	in     *modeling.Gate
	out    *modeling.Gate

	numReceived int
}

// InGate returns the gate that signals arrive at.
func (r *PacketReceiver) InGate() *modeling.Gate {
	return r.in
}

// OutGate returns the gate that packets leave from.
func (r *PacketReceiver) OutGate() *modeling.Gate {
	return r.out
}

// NumReceived returns the number of packets passed downstream.
func (r *PacketReceiver) NumReceived() int {
	return r.numReceived
}

// Handle handles arriving signals.
func (r *PacketReceiver) Handle(e timing.Event) error {
	evt, ok := e.(*modeling.DeliverEvent)
	if !ok {
		return fmt.Errorf("%s cannot handle event %s",
			r.Name(), reflect.TypeOf(e))
	}

	switch payload := evt.Payload.(type) {
	case *packet.SignalAbort:
		flow.ReportDrop(r, payload.Packet, flow.IncompletelyReceived,
			r.engine.CurrentTime())
	case *packet.Signal:
		r.receive(payload)
	default:
		return fmt.Errorf("%s cannot receive %s",
			r.Name(), reflect.TypeOf(evt.Payload))
	}

	return nil
}

func (r *PacketReceiver) receive(signal *packet.Signal) {
	now := r.engine.CurrentTime()

	if r.NumHooks() > 0 {
		r.InvokeHook(hooking.HookCtx{
			Domain: r,
			Pos:    HookPosReceptionEnded,
			Item:   signal,
			Detail: TransmissionDetail{Time: now, Position: signal.Length()},
		})
	}

	p := signal.Decapsulate()

	sink, in := flow.FindSink(r.out)
	switch {
	case sink == nil:
		flow.ReportDrop(r, p, flow.NoDestination, now)
	case !sink.CanAccept(p, in):
		flow.ReportDrop(r, p, flow.QueueOverflow, now)
	default:
		r.numReceived++
		sink.Push(p, in)
	}
}

// HandleCanAcceptChanged does nothing. The receiver cannot hold packets
// back; what the sink refuses is dropped.
func (r *PacketReceiver) HandleCanAcceptChanged(_ *modeling.Gate) {
}

// HandlePushProcessed does nothing.
func (r *PacketReceiver) HandlePushProcessed(
	_ *packet.Packet,
	_ *modeling.Gate,
	_ bool,
) {
}
