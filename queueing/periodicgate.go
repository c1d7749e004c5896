package queueing

import (
	"fmt"
	"log"
	"reflect"

	"github.com/sarchlab/pktflow/clock"
	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

// HookPosGateStateChanged marks when a periodic gate opens or closes. The
// Item is the gate and the Detail is a GateStateDetail.
var HookPosGateStateChanged = &hooking.HookPos{Name: "Gate State Changed"}

// GateStateDetail is the Detail of HookPosGateStateChanged.
type GateStateDetail struct {
	Open      bool
	Time      timing.VTime
	ClockTime clock.Time
}

// PeriodicGate lets packets through to its sink only while its schedule is
// open. The schedule runs on the gate's clock.
type PeriodicGate struct {
	flow.PassThroughBase
	clock.User

	engine        timing.EventScheduler
	schedule      GateSchedule
	guardBandRate packet.Bps

	open        bool
	index       int
	changeTimer *clock.Timer

	numPassed int
}

// IsOpen tells if the gate is open now.
func (g *PeriodicGate) IsOpen() bool {
	return g.open
}

// Schedule returns a copy of the schedule in use.
func (g *PeriodicGate) Schedule() GateSchedule {
	return g.schedule.Clone()
}

// NumPassed returns the number of packets that went through the gate.
func (g *PeriodicGate) NumPassed() int {
	return g.numPassed
}

// NextChangeTime returns the local time of the next state change.
func (g *PeriodicGate) NextChangeTime() clock.Time {
	return g.changeTimer.ArrivalClockTime()
}

// CanPacketFlowThrough tells if the schedule lets the packet through now.
// With a guard band, the packet must also finish before the gate closes.
// The sink is not consulted.
func (g *PeriodicGate) CanPacketFlowThrough(p *packet.Packet) bool {
	if !g.open {
		return false
	}

	if g.guardBandRate <= 0 {
		return true
	}

	remaining := g.NextChangeTime() - g.ClockTime()

	return packet.DurationOf(p.Length(), g.guardBandRate) <= remaining.VTime()
}

// CanAcceptAny is true when the gate is open and the sink accepts.
func (g *PeriodicGate) CanAcceptAny(gate *modeling.Gate) bool {
	return g.open && g.PassThroughBase.CanAcceptAny(gate)
}

// CanAccept is true when the packet can flow through and the sink accepts
// it.
func (g *PeriodicGate) CanAccept(p *packet.Packet, gate *modeling.Gate) bool {
	return g.CanPacketFlowThrough(p) && g.PassThroughBase.CanAccept(p, gate)
}

// Push passes the packet to the sink. The gate must be open.
func (g *PeriodicGate) Push(p *packet.Packet, _ *modeling.Gate) {
	if !g.CanPacketFlowThrough(p) {
		flow.Violate(g, "Push", "packet %s pushed into a closed gate", p)
	}

	g.numPassed++
	flow.Push(g.Out, p)
}

// PushStart starts streaming the packet to the sink. The gate must be open.
func (g *PeriodicGate) PushStart(
	p *packet.Packet,
	gate *modeling.Gate,
	rate packet.Bps,
) {
	if !g.CanPacketFlowThrough(p) {
		flow.Violate(g, "PushStart", "packet %s pushed into a closed gate", p)
	}

	g.numPassed++
	g.PassThroughBase.PushStart(p, gate, rate)
}

// HandleCanAcceptChanged passes the notification upstream while the gate is
// open. A closed gate notifies its producer when it opens.
func (g *PeriodicGate) HandleCanAcceptChanged(gate *modeling.Gate) {
	if g.open {
		g.PassThroughBase.HandleCanAcceptChanged(gate)
	}
}

// SetSchedule replaces the schedule and restarts it from now. An invalid
// schedule is rejected and the gate keeps running the old one.
func (g *PeriodicGate) SetSchedule(s GateSchedule) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}

	wasOpen := g.open
	g.schedule = s.Clone()
	g.initializeGating()

	if g.open != wasOpen {
		g.stateChanged()
	}

	return nil
}

// Handle handles the change timer.
func (g *PeriodicGate) Handle(e timing.Event) error {
	if e != g.changeTimer {
		return fmt.Errorf("%s cannot handle event %s",
			g.Name(), reflect.TypeOf(e))
	}

	g.processChangeTimer()

	return nil
}

func (g *PeriodicGate) initializeGating() {
	g.CancelClockEvent(g.changeTimer)

	durations := g.schedule.Durations
	g.index = 0
	g.open = g.schedule.InitiallyOpen
	offset := g.schedule.Offset % g.schedule.Period()

	for durations[g.index] == 0 || offset >= durations[g.index] {
		offset -= durations[g.index]
		g.advance()
	}

	g.ScheduleClockEventAfter(durations[g.index]-offset, g.changeTimer)
}

func (g *PeriodicGate) advance() {
	g.open = !g.open
	g.index = (g.index + 1) % len(g.schedule.Durations)
}

func (g *PeriodicGate) processChangeTimer() {
	wasOpen := g.open
	durations := g.schedule.Durations

	g.advance()
	for durations[g.index] == 0 {
		g.advance()
	}

	if g.open != wasOpen {
		g.stateChanged()
	}

	g.ScheduleClockEventAfter(durations[g.index], g.changeTimer)
}

func (g *PeriodicGate) stateChanged() {
	if g.NumHooks() > 0 {
		g.InvokeHook(hooking.HookCtx{
			Domain: g,
			Pos:    HookPosGateStateChanged,
			Item:   g,
			Detail: GateStateDetail{
				Open:      g.open,
				Time:      g.engine.CurrentTime(),
				ClockTime: g.ClockTime(),
			},
		})
	}

	flow.NotifyCanAcceptChanged(g.In)
}

// PeriodicGateBuilder can build periodic gates.
type PeriodicGateBuilder struct {
	engine        timing.EventScheduler
	clock         clock.Clock
	schedule      GateSchedule
	guardBandRate packet.Bps
}

// MakePeriodicGateBuilder creates a builder for an always-open gate.
func MakePeriodicGateBuilder() PeriodicGateBuilder {
	return PeriodicGateBuilder{
		schedule: GateSchedule{
			InitiallyOpen: true,
			Durations:     []timing.VTime{timing.Second, 0},
		},
	}
}

// WithEngine sets the engine.
func (b PeriodicGateBuilder) WithEngine(
	engine timing.EventScheduler,
) PeriodicGateBuilder {
	b.engine = engine
	return b
}

// WithClock sets the clock that the schedule runs on.
func (b PeriodicGateBuilder) WithClock(c clock.Clock) PeriodicGateBuilder {
	b.clock = c
	return b
}

// WithSchedule sets the schedule.
func (b PeriodicGateBuilder) WithSchedule(s GateSchedule) PeriodicGateBuilder {
	b.schedule = s
	return b
}

// WithGuardBand makes the gate admit only packets that can be sent at the
// given rate before it closes.
func (b PeriodicGateBuilder) WithGuardBand(rate packet.Bps) PeriodicGateBuilder {
	b.guardBandRate = rate
	return b
}

// Build creates the gate and starts its schedule. It panics if the schedule
// is invalid.
func (b PeriodicGateBuilder) Build(name string) *PeriodicGate {
	if b.engine == nil {
		log.Panicf("periodic gate %s: engine is not set", name)
	}

	if err := b.schedule.Validate(); err != nil {
		panic(&flow.ContractViolation{
			Component: name,
			Op:        "Build",
			Reason:    err.Error(),
		})
	}

	c := b.clock
	if c == nil {
		c = clock.MakeBuilder().WithEngine(b.engine).Build(name + ".Clock")
	}

	g := &PeriodicGate{
		PassThroughBase: flow.MakePassThroughBase(name),
		User:            clock.MakeUser(c),
		engine:          b.engine,
		schedule:        b.schedule.Clone(),
		guardBandRate:   b.guardBandRate,
	}
	g.In = modeling.NewGate(g, "In", modeling.InputGate)
	g.Out = modeling.NewGate(g, "Out", modeling.OutputGate)
	g.changeTimer = clock.NewTimer("ChangeTimer", g, g)
	g.initializeGating()

	return g
}
