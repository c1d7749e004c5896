package flow

import (
	"fmt"

	"github.com/sarchlab/pktflow/sim/naming"
)

// A ContractViolation reports a caller that broke the flow-control contract,
// for example by pushing into a sink that does not accept. It is raised with
// panic and must not be recovered inside the library.
type ContractViolation struct {
	Component string
	Op        string
	Reason    string
}

func (v *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", v.Component, v.Op, v.Reason)
}

// Violate panics with a ContractViolation.
func Violate(component naming.Named, op string, format string, args ...any) {
	name := "<nil>"
	if component != nil {
		name = component.Name()
	}

	panic(&ContractViolation{
		Component: name,
		Op:        op,
		Reason:    fmt.Sprintf(format, args...),
	})
}
