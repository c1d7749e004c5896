package queueing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

// PacketQueue holds packets until its sink accepts them. A full queue
// either refuses packets or, with drop-tail, accepts and drops them.
type PacketQueue struct {
	modeling.ComponentBase

	engine   timing.TimeTeller
	In       *modeling.Gate
	Out      *modeling.Gate
	buffer   *Buffer[*packet.Packet]
	dropTail bool

	forwarding bool
	numDropped int
}

// Buffer returns the buffer that holds the packets.
func (q *PacketQueue) Buffer() *Buffer[*packet.Packet] {
	return q.buffer
}

// NumDropped returns the number of packets dropped on a full queue.
func (q *PacketQueue) NumDropped() int {
	return q.numDropped
}

// Handle returns an error. The queue does not schedule events.
func (q *PacketQueue) Handle(e timing.Event) error {
	return fmt.Errorf("%s cannot handle event %s",
		q.Name(), reflect.TypeOf(e))
}

// SupportsStreaming is false.
func (q *PacketQueue) SupportsStreaming(_ *modeling.Gate) bool {
	return false
}

// CanAcceptAny is true while the queue has room, or always with drop-tail.
func (q *PacketQueue) CanAcceptAny(_ *modeling.Gate) bool {
	return q.dropTail || q.buffer.CanPush()
}

// CanAccept is the same as CanAcceptAny.
func (q *PacketQueue) CanAccept(_ *packet.Packet, g *modeling.Gate) bool {
	return q.CanAcceptAny(g)
}

// Push enqueues the packet and forwards what the sink accepts.
func (q *PacketQueue) Push(p *packet.Packet, _ *modeling.Gate) {
	if !q.buffer.CanPush() {
		if !q.dropTail {
			flow.Violate(q, "Push", "packet %s pushed into a full queue", p)
		}

		q.numDropped++
		flow.ReportDrop(q, p, flow.QueueOverflow, q.engine.CurrentTime())
		flow.NotifyPushProcessed(q.In, p, false)

		return
	}

	q.buffer.Push(p)
	flow.NotifyPushProcessed(q.In, p, true)
	q.forward()
}

// HandleCanAcceptChanged forwards queued packets.
func (q *PacketQueue) HandleCanAcceptChanged(_ *modeling.Gate) {
	q.forward()
}

// HandlePushProcessed does nothing.
func (q *PacketQueue) HandlePushProcessed(
	_ *packet.Packet,
	_ *modeling.Gate,
	_ bool,
) {
}

func (q *PacketQueue) forward() {
	if q.forwarding {
		return
	}

	q.forwarding = true
	wasFull := !q.buffer.CanPush()

	for {
		p, ok := q.buffer.Peek()
		if !ok || !flow.CanPush(q.Out, p) {
			break
		}

		q.buffer.Pop()
		flow.Push(q.Out, p)
	}

	q.forwarding = false

	if wasFull && q.buffer.CanPush() && !q.dropTail {
		flow.NotifyCanAcceptChanged(q.In)
	}
}

// PacketQueueBuilder can build packet queues.
type PacketQueueBuilder struct {
	engine   timing.TimeTeller
	capacity int
	dropTail bool
}

// MakePacketQueueBuilder creates a builder for a queue of 100 packets.
func MakePacketQueueBuilder() PacketQueueBuilder {
	return PacketQueueBuilder{capacity: 100}
}

// WithEngine sets the engine.
func (b PacketQueueBuilder) WithEngine(
	engine timing.TimeTeller,
) PacketQueueBuilder {
	b.engine = engine
	return b
}

// WithCapacity sets the number of packets the queue holds.
func (b PacketQueueBuilder) WithCapacity(capacity int) PacketQueueBuilder {
	b.capacity = capacity
	return b
}

// WithDropTail makes a full queue drop new packets instead of refusing them.
func (b PacketQueueBuilder) WithDropTail(dropTail bool) PacketQueueBuilder {
	b.dropTail = dropTail
	return b
}

// Build creates the queue.
func (b PacketQueueBuilder) Build(name string) *PacketQueue {
	q := &PacketQueue{
		ComponentBase: modeling.MakeComponentBase(name),
		engine:        b.engine,
		buffer:        NewBuffer[*packet.Packet](name+".Buffer", b.capacity),
		dropTail:      b.dropTail,
	}
	q.In = modeling.NewGate(q, "In", modeling.InputGate)
	q.Out = modeling.NewGate(q, "Out", modeling.OutputGate)

	return q
}
