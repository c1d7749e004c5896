package transceiver

import (
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/modeling"
)

// PacketTransmitter sends whole packets. A pushed packet is put on the wire
// at once and the transmitter stays busy until the signal duration has
// passed on its clock.
type PacketTransmitter struct {
	transmitterBase
}

// SupportsStreaming is false; packets are pushed whole.
func (t *PacketTransmitter) SupportsStreaming(_ *modeling.Gate) bool {
	return false
}

// Push starts transmitting the packet.
func (t *PacketTransmitter) Push(p *packet.Packet, _ *modeling.Gate) {
	if t.startTx(p, t.datarate.Datarate()) {
		t.scheduleTxEndTimer()
	}
}
