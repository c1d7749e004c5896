package queueing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/pktflow/clock"
	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

// HookPosPacketProduced marks when a source creates a packet.
var HookPosPacketProduced = &hooking.HookPos{Name: "Packet Produced"}

// ActiveSource produces packets at a fixed interval and pushes them. When
// the sink does not accept, the source holds the packet and waits to be told
// that the sink's capacity changed.
type ActiveSource struct {
	modeling.ComponentBase
	clock.User

	Out *modeling.Gate

	interval timing.VTime
	length   packet.B
	streams  []string
	limit    int

	productionTimer *clock.Timer
	pending         *packet.Packet

	numProduced   int
	numPushed     int
	numSuccessful int
	numFailed     int
}

// NumProduced returns the number of packets created.
func (s *ActiveSource) NumProduced() int {
	return s.numProduced
}

// NumPushed returns the number of packets handed to the sink.
func (s *ActiveSource) NumPushed() int {
	return s.numPushed
}

// NumSuccessful returns the number of packets reported processed.
func (s *ActiveSource) NumSuccessful() int {
	return s.numSuccessful
}

// NumFailed returns the number of packets reported dropped.
func (s *ActiveSource) NumFailed() int {
	return s.numFailed
}

// IsWaiting tells if a produced packet is waiting for the sink.
func (s *ActiveSource) IsWaiting() bool {
	return s.pending != nil
}

// Start schedules the first production after the given local delay.
func (s *ActiveSource) Start(delay timing.VTime) {
	s.ScheduleClockEventAfter(delay, s.productionTimer)
}

// Handle handles the production timer.
func (s *ActiveSource) Handle(e timing.Event) error {
	if e != s.productionTimer {
		return fmt.Errorf("%s cannot handle event %s",
			s.Name(), reflect.TypeOf(e))
	}

	if s.pending == nil {
		s.produce()
	}

	s.tryPush()

	return nil
}

// HandleCanAcceptChanged pushes the waiting packet if the sink now accepts
// it.
func (s *ActiveSource) HandleCanAcceptChanged(_ *modeling.Gate) {
	if s.pending != nil && !s.productionTimer.IsScheduled() {
		s.tryPush()
	}
}

// HandlePushProcessed counts the outcome.
func (s *ActiveSource) HandlePushProcessed(
	_ *packet.Packet,
	_ *modeling.Gate,
	successful bool,
) {
	if successful {
		s.numSuccessful++
	} else {
		s.numFailed++
	}
}

func (s *ActiveSource) produce() {
	p := packet.New(fmt.Sprintf("%s-%d", s.Name(), s.numProduced), s.length)

	if len(s.streams) > 0 {
		stream := s.streams[s.numProduced%len(s.streams)]
		packet.AddTag(p, packet.StreamTag{Stream: stream})
	}

	s.numProduced++
	s.pending = p

	if s.NumHooks() > 0 {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosPacketProduced,
			Item:   p,
		})
	}
}

func (s *ActiveSource) tryPush() {
	if !flow.CanPush(s.Out, s.pending) {
		return
	}

	p := s.pending
	s.pending = nil
	s.numPushed++

	if s.limit <= 0 || s.numProduced < s.limit {
		s.ScheduleClockEventAfter(s.interval, s.productionTimer)
	}

	flow.Push(s.Out, p)
}

// ActiveSourceBuilder can build active sources.
type ActiveSourceBuilder struct {
	engine   timing.EventScheduler
	clock    clock.Clock
	interval timing.VTime
	length   packet.B
	streams  []string
	limit    int
}

// MakeActiveSourceBuilder creates a builder for a source of 1500-byte
// packets every 12 microseconds.
func MakeActiveSourceBuilder() ActiveSourceBuilder {
	return ActiveSourceBuilder{
		interval: 12 * timing.Microsecond,
		length:   1500 * packet.Byte,
	}
}

// WithEngine sets the engine.
func (b ActiveSourceBuilder) WithEngine(
	engine timing.EventScheduler,
) ActiveSourceBuilder {
	b.engine = engine
	return b
}

// WithClock sets the clock the source produces on.
func (b ActiveSourceBuilder) WithClock(c clock.Clock) ActiveSourceBuilder {
	b.clock = c
	return b
}

// WithInterval sets the time between productions.
func (b ActiveSourceBuilder) WithInterval(
	interval timing.VTime,
) ActiveSourceBuilder {
	b.interval = interval
	return b
}

// WithLength sets the packet length.
func (b ActiveSourceBuilder) WithLength(length packet.B) ActiveSourceBuilder {
	b.length = length
	return b
}

// WithStreams makes the source tag its packets with the streams in turn.
func (b ActiveSourceBuilder) WithStreams(streams ...string) ActiveSourceBuilder {
	b.streams = streams
	return b
}

// WithLimit stops the source after the given number of packets. Zero means
// no limit.
func (b ActiveSourceBuilder) WithLimit(limit int) ActiveSourceBuilder {
	b.limit = limit
	return b
}

// Build creates the source. Call Start to begin producing.
func (b ActiveSourceBuilder) Build(name string) *ActiveSource {
	c := b.clock
	if c == nil {
		c = clock.MakeBuilder().WithEngine(b.engine).Build(name + ".Clock")
	}

	s := &ActiveSource{
		ComponentBase: modeling.MakeComponentBase(name),
		User:          clock.MakeUser(c),
		interval:      b.interval,
		length:        b.length,
		streams:       b.streams,
		limit:         b.limit,
	}
	s.Out = modeling.NewGate(s, "Out", modeling.OutputGate)
	s.productionTimer = clock.NewTimer("ProductionTimer", s, s)

	return s
}
