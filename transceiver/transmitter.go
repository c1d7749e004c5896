// Package transceiver turns packets into timed signals on a link and back.
package transceiver

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

// TransmissionState tells if a transmitter is busy.
type TransmissionState int

// Transmission states.
const (
	Idle TransmissionState = iota
	Transmitting
)

func (s TransmissionState) String() string {
	if s == Idle {
		return "Idle"
	}

	return "Transmitting"
}

// Hook positions of transmitters and receivers. The Item is the signal and
// the Detail is a TransmissionDetail.
var (
	HookPosTransmissionStarted  = &hooking.HookPos{Name: "Transmission Started"}
	HookPosTransmissionProgress = &hooking.HookPos{Name: "Transmission Progress"}
	HookPosTransmissionEnded    = &hooking.HookPos{Name: "Transmission Ended"}
	HookPosTransmissionAborted  = &hooking.HookPos{Name: "Transmission Aborted"}
	HookPosReceptionEnded       = &hooking.HookPos{Name: "Reception Ended"}
)

// TransmissionDetail is the Detail of the transmission hooks.
type TransmissionDetail struct {
	Time      timing.VTime
	ClockTime clock.Time
	Position  packet.B
	ExtraLen  packet.B
}

// PacketProcessedFunc is called with the packet when its transmission ends,
// before the producer is notified.
type PacketProcessedFunc func(p *packet.Packet)

// A Transmitter puts one packet at a time on its output gate.
type Transmitter interface {
	modeling.Component
	flow.Sink

	InGate() *modeling.Gate
	OutGate() *modeling.Gate
	State() TransmissionState
	Abort() bool
	Stop()
	Crash()
}

type transmitterBase struct {
	modeling.ComponentBase
	clock.User

	self        modeling.Component
	engine      timing.EventScheduler
	datarate    DatarateParam
	onProcessed PacketProcessedFunc

	in  *modeling.Gate
	out *modeling.Gate

	txSignal     *packet.Signal
	txDelivery   *modeling.DeliverEvent
	txStartTime  timing.VTime
	txStartClock clock.Time
	txEndTimer   *clock.Timer
}

func (t *transmitterBase) init(self modeling.Component) {
	t.self = self
	t.in = modeling.NewGate(self, "In", modeling.InputGate)
	t.out = modeling.NewGate(self, "Out", modeling.OutputGate)
	t.txEndTimer = clock.NewTimer("TxEndTimer", self, self)
	t.clearTx()
}

// InGate returns the gate that packets are pushed into.
func (t *transmitterBase) InGate() *modeling.Gate {
	return t.in
}

// OutGate returns the gate that signals leave from.
func (t *transmitterBase) OutGate() *modeling.Gate {
	return t.out
}

// State returns the transmission state.
func (t *transmitterBase) State() TransmissionState {
	if t.txSignal == nil {
		return Idle
	}

	return Transmitting
}

// IsTransmitting checks if a transmission is in progress.
func (t *transmitterBase) IsTransmitting() bool {
	return t.txSignal != nil
}

// CurrentSignal returns the signal being transmitted, or nil.
func (t *transmitterBase) CurrentSignal() *packet.Signal {
	return t.txSignal
}

// CanAcceptAny is true when the transmitter is idle.
func (t *transmitterBase) CanAcceptAny(_ *modeling.Gate) bool {
	return !t.IsTransmitting()
}

// CanAccept is true when the transmitter is idle.
func (t *transmitterBase) CanAccept(_ *packet.Packet, _ *modeling.Gate) bool {
	return !t.IsTransmitting()
}

// Handle handles the end-of-transmission timer.
func (t *transmitterBase) Handle(e timing.Event) error {
	if e != t.txEndTimer {
		return fmt.Errorf("%s cannot handle event %s",
			t.Name(), reflect.TypeOf(e))
	}

	t.endTx()

	return nil
}

func (t *transmitterBase) now() timing.VTime {
	return t.engine.CurrentTime()
}

// startTx begins a transmission at the given rate. It returns false if the
// packet was dropped because the output path is not usable.
func (t *transmitterBase) startTx(p *packet.Packet, rate packet.Bps) bool {
	if t.IsTransmitting() {
		flow.Violate(t.self, "Push",
			"packet %s pushed while transmitting %s",
			p, t.txSignal.Packet())
	}

	if !modeling.IsPathUsable(t.out) {
		flow.ReportDrop(t.self, p, flow.InterfaceDown, t.now())
		// Unsuccessful, unlike a completed transmission: the packet never
		// left.
		flow.NotifyPushProcessed(t.in, p, false)
		flow.NotifyCanAcceptChanged(t.in)

		return false
	}

	t.txStartTime = t.now()
	t.txStartClock = t.ClockTime()
	t.txSignal = packet.NewSignal(p, t.txStartTime, rate)

	t.invoke(HookPosTransmissionStarted, 0, 0)

	t.txDelivery = modeling.Send(
		t.engine, t.out, t.txSignal.Dup(), t.txSignal.Duration)

	return true
}

func (t *transmitterBase) scheduleTxEndTimer() {
	t.ScheduleClockEventAt(
		t.txStartClock+clock.Time(t.txSignal.Duration),
		t.txEndTimer,
	)
}

func (t *transmitterBase) endTx() {
	if !t.IsTransmitting() {
		flow.Violate(t.self, "EndTx", "not transmitting")
	}

	t.invoke(HookPosTransmissionEnded, t.txSignal.Length(), 0)

	p := t.txSignal.Decapsulate()
	if t.onProcessed != nil {
		t.onProcessed(p)
	}

	t.clearTx()

	flow.NotifyPushProcessed(t.in, p, true)
	flow.NotifyCanAcceptChanged(t.in)
}

func (t *transmitterBase) clearTx() {
	t.txSignal = nil
	t.txDelivery = nil
	t.txStartTime = timing.Never
	t.txStartClock = clock.Time(timing.Never)
}

// Abort cuts off the transmission in progress. The pending delivery of the
// signal is cancelled, the receiver is told that the reception was cut off,
// and the producer gets the packet back as unsuccessful. It returns false if
// nothing was being transmitted.
//
// If the whole signal has already reached the receiver, the transmission
// cannot be taken back. It is completed instead and Abort returns false.
func (t *transmitterBase) Abort() bool {
	if !t.IsTransmitting() {
		return false
	}

	t.CancelClockEvent(t.txEndTimer)

	if !t.engine.Cancel(t.txDelivery) {
		t.endTx()
		return false
	}

	t.invoke(HookPosTransmissionAborted, 0, 0)

	wire := t.txDelivery.Payload.(*packet.Signal)
	p := t.txSignal.Decapsulate()
	t.clearTx()

	if modeling.IsPathUsable(t.out) {
		abort := &packet.SignalAbort{
			SignalID: wire.ID,
			Time:     t.now(),
			Packet:   wire.Decapsulate(),
		}
		modeling.Send(t.engine, t.out, abort, 0)
	}

	flow.NotifyPushProcessed(t.in, p, false)
	flow.NotifyCanAcceptChanged(t.in)

	return true
}

// Stop shuts the transmitter down gracefully. A transmission must not be in
// progress; use Abort first.
func (t *transmitterBase) Stop() {
	if t.IsTransmitting() {
		flow.Violate(t.self, "Stop", "stopped while transmitting")
	}
}

// Crash shuts the transmitter down abruptly. As with Stop, a transmission
// must not be in progress.
func (t *transmitterBase) Crash() {
	if t.IsTransmitting() {
		flow.Violate(t.self, "Crash", "crashed while transmitting")
	}
}

func (t *transmitterBase) invoke(
	pos *hooking.HookPos,
	position, extraLen packet.B,
) {
	if t.NumHooks() == 0 {
		return
	}

	t.InvokeHook(hooking.HookCtx{
		Domain: t.self,
		Pos:    pos,
		Item:   t.txSignal,
		Detail: TransmissionDetail{
			Time:      t.now(),
			ClockTime: t.ClockTime(),
			Position:  position,
			ExtraLen:  extraLen,
		},
	})
}
