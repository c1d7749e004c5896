package modeling

import (
	"fmt"
	"os"

	"github.com/sarchlab/pktflow/sim/naming"
)

// A GateOwner is an element that communicates with others through gates.
type GateOwner interface {
	naming.Named

	AddGate(gate *Gate)
	GetGateByName(name string) *Gate
	Gates() []*Gate
}

// GateOwnerBase provides an implementation of the GateOwner interface.
type GateOwnerBase struct {
	gates       []*Gate
	gatesByName map[string]*Gate
}

// MakeGateOwnerBase creates a new GateOwnerBase
func MakeGateOwnerBase() GateOwnerBase {
	return GateOwnerBase{
		gatesByName: make(map[string]*Gate),
	}
}

// AddGate adds a gate. Gate names are unique within an owner.
func (o *GateOwnerBase) AddGate(gate *Gate) {
	if o.gatesByName == nil {
		o.gatesByName = make(map[string]*Gate)
	}

	if _, found := o.gatesByName[gate.BaseName()]; found {
		panic("gate already exist")
	}

	o.gates = append(o.gates, gate)
	o.gatesByName[gate.BaseName()] = gate
}

// GetGateByName returns the gate with the given base name, such as "Out[1]".
// This function panics when the given name is not found.
func (o *GateOwnerBase) GetGateByName(name string) *Gate {
	gate, found := o.gatesByName[name]
	if !found {
		errMsg := fmt.Sprintf("Gate %s is not available.\n", name)

		errMsg += "Available gates include:\n"
		for _, g := range o.gates {
			errMsg += fmt.Sprintf("\t%s\n", g.BaseName())
		}

		fmt.Fprint(os.Stderr, errMsg)

		panic("gate not found")
	}

	return gate
}

// Gates returns all the gates in the order they were added.
func (o *GateOwnerBase) Gates() []*Gate {
	return o.gates
}
