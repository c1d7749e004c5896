package flow

import (
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/timing"
)

// HookPosPacketDropped marks when a component destroys a packet that it
// could not handle.
var HookPosPacketDropped = &hooking.HookPos{Name: "Packet Dropped"}

// HookPosCanAcceptChanged marks when a sink tells its producer that its
// capacity changed.
var HookPosCanAcceptChanged = &hooking.HookPos{Name: "Can Accept Changed"}

// DropReason tells why a packet was dropped.
type DropReason int

// Drop reasons.
const (
	InterfaceDown DropReason = iota
	NoDestination
	QueueOverflow
	IncompletelyReceived
)

func (r DropReason) String() string {
	switch r {
	case InterfaceDown:
		return "InterfaceDown"
	case NoDestination:
		return "NoDestination"
	case QueueOverflow:
		return "QueueOverflow"
	case IncompletelyReceived:
		return "IncompletelyReceived"
	default:
		return "Unknown"
	}
}

// DropDetail is the Detail of a HookPosPacketDropped hook.
type DropDetail struct {
	Reason DropReason
	Time   timing.VTime
}

// ReportDrop triggers HookPosPacketDropped on the component that dropped the
// packet. The packet is the Item of the hook context.
func ReportDrop(
	invoker hooking.Invoker,
	p *packet.Packet,
	reason DropReason,
	now timing.VTime,
) {
	if invoker.NumHooks() == 0 {
		return
	}

	invoker.InvokeHook(hookCtx(invoker, HookPosPacketDropped, p,
		DropDetail{Reason: reason, Time: now}))
}

func hookCtx(
	domain hooking.Hookable,
	pos *hooking.HookPos,
	item, detail any,
) hooking.HookCtx {
	return hooking.HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	}
}
