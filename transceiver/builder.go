package transceiver

import (
	"log"

	"github.com/sarchlab/pktflow/clock"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

// Builder can build transmitters and receivers.
type Builder struct {
	engine      timing.EventScheduler
	clock       clock.Clock
	datarate    DatarateParam
	onProcessed PacketProcessedFunc
}

// MakeBuilder creates a builder with a 1 Gbps constant data rate.
func MakeBuilder() Builder {
	return Builder{
		datarate: ConstantDatarate(1e9),
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine timing.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithClock sets the clock that end-of-transmission timers are scheduled
// on. Without a clock, the transmitter follows the global time.
func (b Builder) WithClock(c clock.Clock) Builder {
	b.clock = c
	return b
}

// WithDatarate sets the data rate parameter.
func (b Builder) WithDatarate(d DatarateParam) Builder {
	b.datarate = d
	return b
}

// WithPacketProcessedFunc sets a function that runs on every packet when
// its transmission ends.
func (b Builder) WithPacketProcessedFunc(f PacketProcessedFunc) Builder {
	b.onProcessed = f
	return b
}

func (b Builder) makeTransmitterBase(name string) transmitterBase {
	if b.engine == nil {
		log.Panicf("transmitter %s: engine is not set", name)
	}

	if b.datarate == nil {
		log.Panicf("transmitter %s: datarate is not set", name)
	}

	c := b.clock
	if c == nil {
		c = clock.MakeBuilder().WithEngine(b.engine).Build(name + ".Clock")
	}

	return transmitterBase{
		ComponentBase: modeling.MakeComponentBase(name),
		User:          clock.MakeUser(c),
		engine:        b.engine,
		datarate:      b.datarate,
		onProcessed:   b.onProcessed,
	}
}

// BuildPacketTransmitter creates a transmitter for whole packets.
func (b Builder) BuildPacketTransmitter(name string) *PacketTransmitter {
	t := &PacketTransmitter{transmitterBase: b.makeTransmitterBase(name)}
	t.init(t)

	return t
}

// BuildStreamThroughTransmitter creates a transmitter that also accepts
// streamed packets.
func (b Builder) BuildStreamThroughTransmitter(
	name string,
) *StreamThroughTransmitter {
	t := &StreamThroughTransmitter{transmitterBase: b.makeTransmitterBase(name)}
	t.init(t)

	return t
}

// BuildPacketReceiver creates a receiver.
func (b Builder) BuildPacketReceiver(name string) *PacketReceiver {
	if b.engine == nil {
		log.Panicf("receiver %s: engine is not set", name)
	}

	r := &PacketReceiver{
		ComponentBase: modeling.MakeComponentBase(name),
		engine:        b.engine,
	}
	r.in = modeling.NewGate(r, "In", modeling.InputGate)
	r.out = modeling.NewGate(r, "Out", modeling.OutputGate)

	return r
}
