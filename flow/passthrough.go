package flow

import (
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/modeling"
)

// PassThroughBase is embedded by components that sit between one producer
// and one sink. It forwards capacity queries downstream and notifications
// upstream. The embedding component creates In and Out with itself as the
// owner and implements Push.
type PassThroughBase struct {
	modeling.ComponentBase

	In  *modeling.Gate
	Out *modeling.Gate
}

// MakePassThroughBase creates a PassThroughBase without gates.
func MakePassThroughBase(name string) PassThroughBase {
	return PassThroughBase{
		ComponentBase: modeling.MakeComponentBase(name),
	}
}

func (b *PassThroughBase) downstream() (Sink, *modeling.Gate) {
	return FindSink(b.Out)
}

// SupportsStreaming tells if the downstream sink supports streaming.
func (b *PassThroughBase) SupportsStreaming(_ *modeling.Gate) bool {
	sink, in := b.downstream()
	if sink == nil {
		return false
	}

	return sink.SupportsStreaming(in)
}

// CanAcceptAny asks the downstream sink.
func (b *PassThroughBase) CanAcceptAny(_ *modeling.Gate) bool {
	return CanPushAny(b.Out)
}

// CanAccept asks the downstream sink.
func (b *PassThroughBase) CanAccept(p *packet.Packet, _ *modeling.Gate) bool {
	return CanPush(b.Out, p)
}

// PushStart passes the call downstream.
func (b *PassThroughBase) PushStart(
	p *packet.Packet,
	_ *modeling.Gate,
	rate packet.Bps,
) {
	PushStart(b.Out, p, rate)
}

// PushProgress passes the call downstream.
func (b *PassThroughBase) PushProgress(
	p *packet.Packet,
	_ *modeling.Gate,
	rate packet.Bps,
	position, extraLen packet.B,
) {
	PushProgress(b.Out, p, rate, position, extraLen)
}

// PushEnd passes the call downstream.
func (b *PassThroughBase) PushEnd(p *packet.Packet, _ *modeling.Gate) {
	PushEnd(b.Out, p)
}

// ProcessedLength asks the downstream sink.
func (b *PassThroughBase) ProcessedLength(
	p *packet.Packet,
	_ *modeling.Gate,
) packet.B {
	sink, in := b.downstream()

	s, ok := sink.(StreamingSink)
	if !ok {
		return 0
	}

	return s.ProcessedLength(p, in)
}

// HandleCanAcceptChanged passes the notification upstream.
func (b *PassThroughBase) HandleCanAcceptChanged(_ *modeling.Gate) {
	NotifyCanAcceptChanged(b.In)
}

// HandlePushProcessed passes the notification upstream.
func (b *PassThroughBase) HandlePushProcessed(
	p *packet.Packet,
	_ *modeling.Gate,
	successful bool,
) {
	NotifyPushProcessed(b.In, p, successful)
}

// HandleRegisterProtocol passes the registration upstream.
func (b *PassThroughBase) HandleRegisterProtocol(
	protocol string,
	_ *modeling.Gate,
) {
	RegisterProtocol(b.In, protocol)
}
