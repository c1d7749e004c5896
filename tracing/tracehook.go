package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/queueing"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/naming"
	"github.com/sarchlab/pktflow/transceiver"
)

// NamedHookable is a domain that has a name and accepts hooks.
type NamedHookable interface {
	naming.Named
	hooking.Hookable
}

// CollectTrace let the tracer to collect trace from a domain
func CollectTrace(domain NamedHookable, tracer Tracer) {
	hooks := domain.Hooks()
	for _, hook := range hooks {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer, location: domain.Name()}
	domain.AcceptHook(&h)
}

// A traceHook converts the hooks of a domain into tasks and milestones.
type traceHook struct {
	t        Tracer
	location string
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case transceiver.HookPosTransmissionStarted:
		h.t.StartTask(h.signalTask(ctx, KindTransmission, true))
	case transceiver.HookPosTransmissionEnded:
		h.t.EndTask(h.signalTask(ctx, KindTransmission, false))
	case transceiver.HookPosTransmissionAborted:
		task := h.signalTask(ctx, KindTransmission, false)
		task.Aborted = true
		h.t.EndTask(task)
	case transceiver.HookPosReceptionEnded:
		h.receptionEnded(ctx)
	case flow.HookPosPacketDropped:
		h.packetDropped(ctx)
	case queueing.HookPosGateStateChanged:
		h.gateStateChanged(ctx)
	}
}

func (h *traceHook) signalTask(
	ctx hooking.HookCtx,
	kind string,
	start bool,
) Task {
	signal := ctx.Item.(*packet.Signal)
	detail := ctx.Detail.(transceiver.TransmissionDetail)

	task := Task{
		ID:       signal.ID,
		Kind:     kind,
		What:     signal.Packet().Name,
		Location: h.location,
		Detail:   detail,
	}

	if start {
		task.StartTime = detail.Time
	} else {
		task.EndTime = detail.Time
	}

	return task
}

// Receptions are reported when the last bit arrives, so the task is started
// and ended at once.
func (h *traceHook) receptionEnded(ctx hooking.HookCtx) {
	signal := ctx.Item.(*packet.Signal)
	detail := ctx.Detail.(transceiver.TransmissionDetail)

	task := Task{
		ID:        signal.ID + "@" + h.location,
		Kind:      KindReception,
		What:      signal.Packet().Name,
		Location:  h.location,
		StartTime: signal.StartTime,
		EndTime:   detail.Time,
		Detail:    detail,
	}

	h.t.StartTask(task)
	h.t.EndTask(task)
}

func (h *traceHook) packetDropped(ctx hooking.HookCtx) {
	p := ctx.Item.(*packet.Packet)
	detail := ctx.Detail.(flow.DropDetail)

	h.t.AddMilestone(Milestone{
		Kind:     MilestoneKindDrop,
		What:     detail.Reason.String(),
		Location: h.location,
		Subject:  p.Name,
		Time:     detail.Time,
	})
}

func (h *traceHook) gateStateChanged(ctx hooking.HookCtx) {
	detail := ctx.Detail.(queueing.GateStateDetail)

	what := "closed"
	if detail.Open {
		what = "open"
	}

	h.t.AddMilestone(Milestone{
		Kind:     MilestoneKindGateState,
		What:     what,
		Location: h.location,
		Time:     detail.Time,
	})
}
