package transceiver

import (
	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/modeling"
)

// StreamThroughTransmitter sends packets that are either pushed whole or
// streamed in by the producer. A streamed packet ends when the producer
// calls PushEnd, not on a timer, so the producer's rate paces it.
type StreamThroughTransmitter struct {
	transmitterBase

	streaming    bool
	txPacketID   string
	lastPosition packet.B
	lastExtraLen packet.B
}

// SupportsStreaming is true.
func (t *StreamThroughTransmitter) SupportsStreaming(_ *modeling.Gate) bool {
	return true
}

// Push transmits a whole packet at the configured rate.
func (t *StreamThroughTransmitter) Push(p *packet.Packet, _ *modeling.Gate) {
	if !t.startTx(p, t.datarate.Datarate()) {
		return
	}

	t.streaming = false
	t.txPacketID = p.ID
	t.scheduleTxEndTimer()
}

// PushStart begins a streamed transmission at the producer's rate.
func (t *StreamThroughTransmitter) PushStart(
	p *packet.Packet,
	_ *modeling.Gate,
	rate packet.Bps,
) {
	if !t.startTx(p, rate) {
		return
	}

	t.streaming = true
	t.txPacketID = p.ID
	t.lastPosition = 0
	t.lastExtraLen = 0
}

// PushProgress records how far the producer has streamed the packet.
func (t *StreamThroughTransmitter) PushProgress(
	p *packet.Packet,
	_ *modeling.Gate,
	rate packet.Bps,
	position, extraLen packet.B,
) {
	t.mustBeStreaming(p, "PushProgress")

	if rate != t.txSignal.Bitrate {
		flow.Violate(t, "PushProgress", "rate changed from %s to %s",
			t.txSignal.Bitrate, rate)
	}

	if position < t.lastPosition {
		flow.Violate(t, "PushProgress", "position went back from %s to %s",
			t.lastPosition, position)
	}

	if extraLen < 0 || position+extraLen > t.txSignal.Length() {
		flow.Violate(t, "PushProgress",
			"position %s plus %s exceeds the packet length %s",
			position, extraLen, t.txSignal.Length())
	}

	t.lastPosition = position
	t.lastExtraLen = extraLen

	t.invoke(HookPosTransmissionProgress, position, extraLen)
}

// PushEnd completes a streamed transmission. The whole packet must have
// been sent.
func (t *StreamThroughTransmitter) PushEnd(p *packet.Packet, g *modeling.Gate) {
	t.mustBeStreaming(p, "PushEnd")

	processed := t.ProcessedLength(p, g)
	if processed != t.txSignal.Length() {
		flow.Violate(t, "PushEnd", "only %s of %s sent",
			processed, t.txSignal.Length())
	}

	t.endTx()
}

// ProcessedLength returns the number of bits sent so far. It never exceeds
// the packet length.
func (t *StreamThroughTransmitter) ProcessedLength(
	_ *packet.Packet,
	_ *modeling.Gate,
) packet.B {
	if !t.IsTransmitting() {
		return 0
	}

	sent := packet.LengthIn(t.now()-t.txStartTime, t.txSignal.Bitrate)

	return min(sent, t.txSignal.Length())
}

// LastPosition returns the position of the latest progress report.
func (t *StreamThroughTransmitter) LastPosition() packet.B {
	return t.lastPosition
}

func (t *StreamThroughTransmitter) mustBeStreaming(p *packet.Packet, op string) {
	if !t.IsTransmitting() {
		flow.Violate(t, op, "not transmitting")
	}

	if p.ID != t.txPacketID {
		flow.Violate(t, op, "packet %s is not the one in transmission", p)
	}

	if !t.streaming {
		flow.Violate(t, op, "packet %s was pushed whole", p)
	}
}
