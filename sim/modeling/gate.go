package modeling

import (
	"fmt"
	"log"
)

// GateType is the direction of a gate.
type GateType int

// Gate directions.
const (
	InputGate GateType = iota
	OutputGate
)

func (t GateType) String() string {
	if t == InputGate {
		return "input"
	}

	return "output"
}

// A Gate is a directional connection endpoint owned by a component or a
// domain. Links go from a gate to its next gate; following the links from
// an output gate leads to the input gate of the component at the other end.
type Gate struct {
	baseName string
	owner    GateOwner
	gateType GateType
	index    int

	next    *Gate
	prev    *Gate
	channel *Channel
}

// NewGate creates a gate and adds it to the owner.
func NewGate(owner GateOwner, name string, gateType GateType) *Gate {
	g := &Gate{
		baseName: name,
		owner:    owner,
		gateType: gateType,
		index:    -1,
	}

	owner.AddGate(g)

	return g
}

// NewGateVector creates n gates named "name[0]" to "name[n-1]".
func NewGateVector(
	owner GateOwner,
	name string,
	gateType GateType,
	n int,
) []*Gate {
	gates := make([]*Gate, n)

	for i := range gates {
		gates[i] = &Gate{
			baseName: fmt.Sprintf("%s[%d]", name, i),
			owner:    owner,
			gateType: gateType,
			index:    i,
		}

		owner.AddGate(gates[i])
	}

	return gates
}

// Name returns the full name of the gate, like "Link.Transmitter.Out".
func (g *Gate) Name() string {
	return g.owner.Name() + "." + g.baseName
}

// BaseName returns the name of the gate within its owner.
func (g *Gate) BaseName() string {
	return g.baseName
}

// Owner returns the component or domain that owns the gate.
func (g *Gate) Owner() GateOwner {
	return g.owner
}

// Type returns the direction of the gate.
func (g *Gate) Type() GateType {
	return g.gateType
}

// Index returns the position of the gate in its vector, or -1.
func (g *Gate) Index() int {
	return g.index
}

// Next returns the gate this gate links to.
func (g *Gate) Next() *Gate {
	return g.next
}

// Prev returns the gate that links to this gate.
func (g *Gate) Prev() *Gate {
	return g.prev
}

// Channel returns the channel of the outgoing link, if any.
func (g *Gate) Channel() *Channel {
	return g.channel
}

// IsConnected checks if the gate is linked on the side that faces away from
// its owner.
func (g *Gate) IsConnected() bool {
	if g.gateType == OutputGate {
		return g.next != nil
	}

	return g.prev != nil
}

// Connect links the from gate to the to gate. The channel may be nil for
// an ideal link.
func Connect(from, to *Gate, ch *Channel) {
	if from.next != nil {
		log.Panicf("gate %s is already connected to %s",
			from.Name(), from.next.Name())
	}

	if to.prev != nil {
		log.Panicf("gate %s is already connected from %s",
			to.Name(), to.prev.Name())
	}

	from.next = to
	from.channel = ch
	to.prev = from
}

// Disconnect removes the outgoing link of the gate.
func Disconnect(from *Gate) {
	if from.next == nil {
		return
	}

	from.next.prev = nil
	from.next = nil
	from.channel = nil
}

// PathStartGate follows the links backward to the first gate.
func PathStartGate(g *Gate) *Gate {
	for g.prev != nil {
		g = g.prev
	}

	return g
}

// PathEndGate follows the links forward to the last gate.
func PathEndGate(g *Gate) *Gate {
	for g.next != nil {
		g = g.next
	}

	return g
}

// IsPathUsable checks if something sent on the gate can arrive at a
// component. It is false when a channel on the way is disabled, or when the
// path does not end at a component.
func IsPathUsable(out *Gate) bool {
	g := out
	for g.next != nil {
		if g.channel != nil && g.channel.IsDisabled() {
			return false
		}

		g = g.next
	}

	if g == out {
		return false
	}

	_, isComponent := g.owner.(Component)

	return isComponent
}
