// Package redundancy provides the stream-based elements of frame
// replication: stream identification and stream dispatch.
package redundancy

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"

	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

// A StreamMapping sends the packets of a stream to an output gate.
type StreamMapping struct {
	Stream string `yaml:"stream"`
	Gate   int    `yaml:"gate"`
}

// ValidateMappings reports duplicate and empty stream names and gate
// indices outside [0, numGates).
func ValidateMappings(mappings []StreamMapping, numGates int) error {
	var result *multierror.Error

	seen := make(map[string]bool)

	for i, m := range mappings {
		if m.Stream == "" {
			result = multierror.Append(result,
				fmt.Errorf("mapping %d has no stream", i))
		}

		if seen[m.Stream] && m.Stream != "" {
			result = multierror.Append(result,
				fmt.Errorf("stream %q is mapped more than once", m.Stream))
		}

		seen[m.Stream] = true

		if m.Gate < 0 || m.Gate >= numGates {
			result = multierror.Append(result, fmt.Errorf(
				"stream %q is mapped to gate %d, only %d gates exist",
				m.Stream, m.Gate, numGates))
		}
	}

	return result.ErrorOrNil()
}

// StreamDecoder dispatches packets to its outputs by the stream they belong
// to. A packet without a stream, or of a stream that is not mapped, is
// dropped; there is no default output.
type StreamDecoder struct {
	modeling.ComponentBase

	engine timing.TimeTeller

	In  *modeling.Gate
	Out []*modeling.Gate

	mappings   map[string]int
	registered map[int][]string

	numDispatched int
	numDropped    int
}

// NewStreamDecoder creates a decoder with n outputs and no mappings.
func NewStreamDecoder(
	name string,
	engine timing.TimeTeller,
	numOutputs int,
) *StreamDecoder {
	d := &StreamDecoder{
		ComponentBase: modeling.MakeComponentBase(name),
		engine:        engine,
		mappings:      make(map[string]int),
		registered:    make(map[int][]string),
	}
	d.In = modeling.NewGate(d, "In", modeling.InputGate)
	d.Out = modeling.NewGateVector(d, "Out", modeling.OutputGate, numOutputs)

	return d
}

// SetMappings replaces the mapping table. Packets that arrive from now on
// are dispatched with the new table.
func (d *StreamDecoder) SetMappings(mappings []StreamMapping) error {
	if err := ValidateMappings(mappings, len(d.Out)); err != nil {
		return fmt.Errorf("%s: %w", d.Name(), err)
	}

	table := make(map[string]int, len(mappings))
	for _, m := range mappings {
		table[m.Stream] = m.Gate
	}

	d.mappings = table

	return nil
}

// OutputFor returns the output gate of a stream.
func (d *StreamDecoder) OutputFor(stream string) (*modeling.Gate, bool) {
	i, found := d.mappings[stream]
	if !found {
		return nil, false
	}

	return d.Out[i], true
}

// NumDispatched returns the number of packets forwarded.
func (d *StreamDecoder) NumDispatched() int {
	return d.numDispatched
}

// NumDropped returns the number of packets without a destination.
func (d *StreamDecoder) NumDropped() int {
	return d.numDropped
}

// Handle returns an error. The decoder does not schedule events.
func (d *StreamDecoder) Handle(e timing.Event) error {
	return fmt.Errorf("%s cannot handle event %s",
		d.Name(), reflect.TypeOf(e))
}

func (d *StreamDecoder) route(p *packet.Packet) (*modeling.Gate, bool) {
	tag, found := packet.FindTag[packet.StreamTag](p)
	if !found {
		return nil, false
	}

	return d.OutputFor(tag.Stream)
}

// SupportsStreaming is false.
func (d *StreamDecoder) SupportsStreaming(_ *modeling.Gate) bool {
	return false
}

// CanAcceptAny is true if any output accepts.
func (d *StreamDecoder) CanAcceptAny(_ *modeling.Gate) bool {
	for _, out := range d.Out {
		if flow.CanPushAny(out) {
			return true
		}
	}

	return false
}

// CanAccept asks the output of the packet's stream. A packet that has no
// output is accepted so that it can be dropped.
func (d *StreamDecoder) CanAccept(p *packet.Packet, _ *modeling.Gate) bool {
	out, found := d.route(p)
	if !found {
		return true
	}

	return flow.CanPush(out, p)
}

// Push dispatches the packet.
func (d *StreamDecoder) Push(p *packet.Packet, _ *modeling.Gate) {
	out, found := d.route(p)
	if !found {
		d.numDropped++
		flow.ReportDrop(d, p, flow.NoDestination, d.engine.CurrentTime())
		flow.NotifyPushProcessed(d.In, p, false)

		return
	}

	d.numDispatched++
	flow.Push(out, p)
}

// HandleCanAcceptChanged passes the notification upstream.
func (d *StreamDecoder) HandleCanAcceptChanged(_ *modeling.Gate) {
	flow.NotifyCanAcceptChanged(d.In)
}

// HandlePushProcessed passes the notification upstream.
func (d *StreamDecoder) HandlePushProcessed(
	p *packet.Packet,
	_ *modeling.Gate,
	successful bool,
) {
	flow.NotifyPushProcessed(d.In, p, successful)
}

// RegistrationForwardingGate returns the gate a registration that arrives
// on the given gate is forwarded through. Registrations from the outputs go
// upstream through the input; nothing is forwarded from the input.
func (d *StreamDecoder) RegistrationForwardingGate(
	g *modeling.Gate,
) *modeling.Gate {
	if g == d.In {
		return nil
	}

	return d.In
}

// HandleRegisterProtocol records the protocol for the output and forwards
// it upstream.
func (d *StreamDecoder) HandleRegisterProtocol(
	protocol string,
	g *modeling.Gate,
) {
	if g.Owner() != d || g.Type() != modeling.OutputGate {
		flow.Violate(d, "RegisterProtocol",
			"registration of %s arrived on %s, not on an output",
			protocol, g.Name())
	}

	d.registered[g.Index()] = append(d.registered[g.Index()], protocol)

	if fwd := d.RegistrationForwardingGate(g); fwd != nil {
		flow.RegisterProtocol(fwd, protocol)
	}
}

// RegisteredProtocols returns the protocols announced behind an output.
func (d *StreamDecoder) RegisteredProtocols(output int) []string {
	return d.registered[output]
}
