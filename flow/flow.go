// Package flow defines the push/pull handshake between adjacent components.
//
// A producer asks a sink whether it can accept a packet before it pushes.
// The answer must hold for an immediately following push. When the answer
// changes, the sink tells the producer; producers never poll.
package flow

import (
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/modeling"
)

// A Sink receives packets on its input gates. The gate argument is always
// the sink's own input gate.
type Sink interface {
	// SupportsStreaming tells if the sink accepts packets bit by bit through
	// the StreamingSink calls.
	SupportsStreaming(gate *modeling.Gate) bool

	// CanAcceptAny tells if some packet could be pushed now.
	CanAcceptAny(gate *modeling.Gate) bool

	// CanAccept tells if the given packet could be pushed now.
	CanAccept(p *packet.Packet, gate *modeling.Gate) bool

	// Push hands the packet over. Pushing when CanAccept is false is a
	// contract violation.
	Push(p *packet.Packet, gate *modeling.Gate)
}

// A StreamingSink receives packets incrementally. A streamed packet begins
// with PushStart, reports how far it has arrived with PushProgress and is
// completed by PushEnd, which is only valid once the whole packet has
// arrived.
type StreamingSink interface {
	Sink

	PushStart(p *packet.Packet, gate *modeling.Gate, rate packet.Bps)
	PushProgress(
		p *packet.Packet,
		gate *modeling.Gate,
		rate packet.Bps,
		position, extraLen packet.B,
	)
	PushEnd(p *packet.Packet, gate *modeling.Gate)

	// ProcessedLength returns how much of the packet in progress has been
	// taken in so far.
	ProcessedLength(p *packet.Packet, gate *modeling.Gate) packet.B
}

// A Producer pushes packets into sinks and waits to be told about their
// capacity. The gate argument is always the producer's own output gate.
type Producer interface {
	// HandleCanAcceptChanged is called when the sink may accept packets
	// that it refused before, or the other way around.
	HandleCanAcceptChanged(gate *modeling.Gate)

	// HandlePushProcessed is called when the sink is done with a pushed
	// packet, either because it was processed or because it was dropped.
	HandlePushProcessed(p *packet.Packet, gate *modeling.Gate, successful bool)
}

// FindSink returns the sink at the end of the path that starts with the
// output gate, together with the sink's input gate. It returns nil if the
// path does not end at a sink.
func FindSink(out *modeling.Gate) (Sink, *modeling.Gate) {
	in := modeling.PathEndGate(out)
	if in == out {
		return nil, nil
	}

	sink, ok := in.Owner().(Sink)
	if !ok {
		return nil, nil
	}

	return sink, in
}

// FindProducer returns the producer at the start of the path that ends with
// the input gate, together with the producer's output gate.
func FindProducer(in *modeling.Gate) (Producer, *modeling.Gate) {
	out := modeling.PathStartGate(in)
	if out == in {
		return nil, nil
	}

	producer, ok := out.Owner().(Producer)
	if !ok {
		return nil, nil
	}

	return producer, out
}

// CanPush asks the sink behind the output gate whether it accepts the
// packet. A missing sink never accepts.
func CanPush(out *modeling.Gate, p *packet.Packet) bool {
	sink, in := FindSink(out)
	if sink == nil {
		return false
	}

	return sink.CanAccept(p, in)
}

// CanPushAny asks the sink behind the output gate whether it accepts any
// packet.
func CanPushAny(out *modeling.Gate) bool {
	sink, in := FindSink(out)
	if sink == nil {
		return false
	}

	return sink.CanAcceptAny(in)
}

// Push hands the packet to the sink behind the output gate. It panics with
// a ContractViolation if there is no sink or the sink does not accept the
// packet.
func Push(out *modeling.Gate, p *packet.Packet) {
	sink, in := FindSink(out)
	if sink == nil {
		Violate(out.Owner(), "Push", "gate %s is not connected to a sink",
			out.Name())
	}

	if !sink.CanAccept(p, in) {
		Violate(out.Owner(), "Push", "%s does not accept packet %s",
			in.Name(), p)
	}

	sink.Push(p, in)
}

func streamingSink(out *modeling.Gate, op string) (StreamingSink, *modeling.Gate) {
	sink, in := FindSink(out)
	if sink == nil {
		Violate(out.Owner(), op, "gate %s is not connected to a sink",
			out.Name())
	}

	s, ok := sink.(StreamingSink)
	if !ok || !s.SupportsStreaming(in) {
		Violate(out.Owner(), op, "%s does not support streaming", in.Name())
	}

	return s, in
}

// PushStart begins streaming the packet into the sink behind the output
// gate.
func PushStart(out *modeling.Gate, p *packet.Packet, rate packet.Bps) {
	s, in := streamingSink(out, "PushStart")

	if !s.CanAccept(p, in) {
		Violate(out.Owner(), "PushStart", "%s does not accept packet %s",
			in.Name(), p)
	}

	s.PushStart(p, in, rate)
}

// PushProgress reports streaming progress to the sink behind the output
// gate.
func PushProgress(
	out *modeling.Gate,
	p *packet.Packet,
	rate packet.Bps,
	position, extraLen packet.B,
) {
	s, in := streamingSink(out, "PushProgress")
	s.PushProgress(p, in, rate, position, extraLen)
}

// PushEnd completes streaming the packet into the sink behind the output
// gate.
func PushEnd(out *modeling.Gate, p *packet.Packet) {
	s, in := streamingSink(out, "PushEnd")
	s.PushEnd(p, in)
}

// NotifyCanAcceptChanged tells the producer behind the input gate that the
// capacity changed. It also triggers HookPosCanAcceptChanged on the owner of
// the input gate.
func NotifyCanAcceptChanged(in *modeling.Gate) {
	if invoker, ok := in.Owner().(modeling.Component); ok &&
		invoker.NumHooks() > 0 {
		invoker.InvokeHook(hookCtx(invoker, HookPosCanAcceptChanged, in, nil))
	}

	producer, out := FindProducer(in)
	if producer == nil {
		return
	}

	producer.HandleCanAcceptChanged(out)
}

// NotifyPushProcessed tells the producer behind the input gate that the sink
// is done with the packet.
func NotifyPushProcessed(in *modeling.Gate, p *packet.Packet, successful bool) {
	producer, out := FindProducer(in)
	if producer == nil {
		return
	}

	producer.HandlePushProcessed(p, out, successful)
}
