// Package modeling provides the structural elements of a simulation:
// components, the gates they own and the links between gates.
package modeling

import (
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/naming"
	"github.com/sarchlab/pktflow/sim/timing"
)

// A Component is a simple module. It handles its own events and reports what
// it does through hooks.
type Component interface {
	naming.Named
	timing.Handler
	hooking.Invoker
	GateOwner
}

// ComponentBase provides the name, the hooks and the gates of a component.
type ComponentBase struct {
	naming.NamedBase
	hooking.HookableBase
	GateOwnerBase
}

// MakeComponentBase creates a ComponentBase. The name must be valid.
func MakeComponentBase(name string) ComponentBase {
	naming.NameMustBeValid(name)

	return ComponentBase{
		NamedBase:     naming.MakeNamedBase(name),
		GateOwnerBase: MakeGateOwnerBase(),
	}
}

// Domain is a compound module. It owns gates that only pass links through
// to the components inside it.
type Domain struct {
	naming.NamedBase
	GateOwnerBase
}

// NewDomain creates a new Domain
func NewDomain(name string) *Domain {
	naming.NameMustBeValid(name)

	return &Domain{
		NamedBase:     naming.MakeNamedBase(name),
		GateOwnerBase: MakeGateOwnerBase(),
	}
}
