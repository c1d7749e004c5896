package queueing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

// HookPosPacketConsumed marks when a sink consumes a packet.
var HookPosPacketConsumed = &hooking.HookPos{Name: "Packet Consumed"}

// PassiveSink accepts every packet and counts them.
type PassiveSink struct {
	modeling.ComponentBase

	engine timing.TimeTeller
	In     *modeling.Gate

	numPackets  int
	numBits     packet.B
	lastArrival timing.VTime
	streams     map[string]int
}

// NewPassiveSink creates a sink.
func NewPassiveSink(name string, engine timing.TimeTeller) *PassiveSink {
	s := &PassiveSink{
		ComponentBase: modeling.MakeComponentBase(name),
		engine:        engine,
		lastArrival:   timing.Never,
		streams:       make(map[string]int),
	}
	s.In = modeling.NewGate(s, "In", modeling.InputGate)

	return s
}

// NumPackets returns the number of packets consumed.
func (s *PassiveSink) NumPackets() int {
	return s.numPackets
}

// NumBits returns the total length of the packets consumed.
func (s *PassiveSink) NumBits() packet.B {
	return s.numBits
}

// LastArrival returns the time of the latest packet, or Never.
func (s *PassiveSink) LastArrival() timing.VTime {
	return s.lastArrival
}

// NumPacketsOfStream returns the number of consumed packets of a stream.
func (s *PassiveSink) NumPacketsOfStream(stream string) int {
	return s.streams[stream]
}

// Handle returns an error. The sink does not schedule events.
func (s *PassiveSink) Handle(e timing.Event) error {
	return fmt.Errorf("%s cannot handle event %s",
		s.Name(), reflect.TypeOf(e))
}

// SupportsStreaming is false.
func (s *PassiveSink) SupportsStreaming(_ *modeling.Gate) bool {
	return false
}

// CanAcceptAny is always true.
func (s *PassiveSink) CanAcceptAny(_ *modeling.Gate) bool {
	return true
}

// CanAccept is always true.
func (s *PassiveSink) CanAccept(_ *packet.Packet, _ *modeling.Gate) bool {
	return true
}

// Push consumes the packet.
func (s *PassiveSink) Push(p *packet.Packet, _ *modeling.Gate) {
	s.numPackets++
	s.numBits += p.Length()
	s.lastArrival = s.engine.CurrentTime()

	if tag, found := packet.FindTag[packet.StreamTag](p); found {
		s.streams[tag.Stream]++
	}

	if s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosPacketConsumed,
			Item:   p,
			Detail: s.lastArrival,
		})
	}

	flow.NotifyPushProcessed(s.In, p, true)
}
