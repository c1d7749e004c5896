package flow

import "github.com/sarchlab/pktflow/sim/modeling"

// A ProtocolRegistrationListener learns which protocols the components
// behind its output gates handle.
type ProtocolRegistrationListener interface {
	HandleRegisterProtocol(protocol string, gate *modeling.Gate)
}

// RegisterProtocol announces, through the input gate, that the owner of the
// gate handles the protocol. The listener at the other end may forward the
// announcement further upstream.
func RegisterProtocol(in *modeling.Gate, protocol string) {
	out := modeling.PathStartGate(in)
	if out == in {
		return
	}

	listener, ok := out.Owner().(ProtocolRegistrationListener)
	if !ok {
		return
	}

	listener.HandleRegisterProtocol(protocol, out)
}
