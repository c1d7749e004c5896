package packet

import (
	"log"

	"github.com/sarchlab/pktflow/sim/id"
	"github.com/sarchlab/pktflow/sim/timing"
)

// A Signal is a packet on the wire. It lasts Duration from StartTime and is
// consumed when the packet is taken out of it.
type Signal struct {
	ID        string
	StartTime timing.VTime
	Duration  timing.VTime
	Bitrate   Bps

	packet *Packet
}

// NewSignal encapsulates a packet into a signal sent at the given rate.
func NewSignal(p *Packet, start timing.VTime, rate Bps) *Signal {
	return &Signal{
		ID:        id.Generate(),
		StartTime: start,
		Duration:  DurationOf(p.Length(), rate),
		Bitrate:   rate,
		packet:    p,
	}
}

// EndTime returns the time the last bit leaves the transmitter.
func (s *Signal) EndTime() timing.VTime {
	return s.StartTime + s.Duration
}

// Packet returns the encapsulated packet without removing it. It returns nil
// after Decapsulate.
func (s *Signal) Packet() *Packet {
	return s.packet
}

// Length returns the length of the encapsulated packet.
func (s *Signal) Length() B {
	if s.packet == nil {
		log.Panicf("packet: signal %s is already decapsulated", s.ID)
	}

	return s.packet.Length()
}

// Decapsulate removes the packet from the signal. It can be called once.
func (s *Signal) Decapsulate() *Packet {
	if s.packet == nil {
		log.Panicf("packet: signal %s is already decapsulated", s.ID)
	}

	p := s.packet
	s.packet = nil

	return p
}

// Dup copies the signal together with a copy of its packet. The copies keep
// the signal ID and the packet ID, so both refer to the same transmission.
func (s *Signal) Dup() *Signal {
	c := *s
	if s.packet != nil {
		c.packet = s.packet.clone()
	}

	return &c
}

// SignalAbort tells the receiver that the signal with the given ID was cut
// off before its end. It arrives in place of the signal and carries a copy
// of the packet that was lost.
type SignalAbort struct {
	SignalID string
	Time     timing.VTime
	Packet   *Packet
}
