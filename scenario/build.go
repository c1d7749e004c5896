package scenario

import (
	"fmt"

	"github.com/iti/rngstream"

	"github.com/sarchlab/pktflow/clock"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/queueing"
	"github.com/sarchlab/pktflow/redundancy"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
	"github.com/sarchlab/pktflow/transceiver"
)

// A Simulation is a built scenario.
type Simulation struct {
	Scenario *Scenario
	Engine   *timing.SerialEngine
	Links    []*LinkInstance
}

// A LinkInstance holds the elements of one link. Queue, Gate and Decoder
// are nil when the link has none.
type LinkInstance struct {
	Name        string
	Clock       *clock.OffsetClock
	Source      *queueing.ActiveSource
	Queue       *queueing.PacketQueue
	Gate        *queueing.PeriodicGate
	Transmitter transceiver.Transmitter
	Channel     *modeling.Channel
	Receiver    *transceiver.PacketReceiver
	Decoder     *redundancy.StreamDecoder
	Sinks       []*queueing.PassiveSink

	start timing.VTime
}

// Build validates the scenario and creates its elements on a new engine.
func Build(s *Scenario) (*Simulation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sim := &Simulation{
		Scenario: s,
		Engine:   timing.NewSerialEngine(),
	}

	for i := range s.Links {
		sim.Links = append(sim.Links, buildLink(sim.Engine, &s.Links[i]))
	}

	return sim, nil
}

func buildLink(engine *timing.SerialEngine, cfg *Link) *LinkInstance {
	l := &LinkInstance{
		Name:  cfg.Name,
		start: cfg.Source.Start.VTime(),
	}

	var rng *rngstream.RngStream
	if cfg.Clock.Random || cfg.Transmitter.Datarate == 0 {
		rng = rngstream.New(cfg.Name)
	}

	l.Clock = buildClock(engine, cfg, rng)
	l.Source = queueing.MakeActiveSourceBuilder().
		WithEngine(engine).
		WithClock(l.Clock).
		WithInterval(cfg.Source.Interval.VTime()).
		WithLength(packet.B(cfg.Source.Length)).
		WithStreams(cfg.Source.Streams...).
		WithLimit(cfg.Source.Limit).
		Build(cfg.Name + ".Source")

	upstream := l.Source.Out

	if cfg.Queue != nil {
		l.Queue = queueing.MakePacketQueueBuilder().
			WithEngine(engine).
			WithCapacity(cfg.Queue.Capacity).
			WithDropTail(cfg.Queue.DropTail).
			Build(cfg.Name + ".Queue")
		modeling.Connect(upstream, l.Queue.In, nil)
		upstream = l.Queue.Out
	}

	if cfg.Gate != nil {
		b := queueing.MakePeriodicGateBuilder().
			WithEngine(engine).
			WithClock(l.Clock).
			WithSchedule(cfg.Gate.Schedule())

		if cfg.Gate.GuardBand {
			b = b.WithGuardBand(slowestRate(cfg.Transmitter))
		}

		l.Gate = b.Build(cfg.Name + ".Gate")
		modeling.Connect(upstream, l.Gate.In, nil)
		upstream = l.Gate.Out
	}

	l.Transmitter = buildTransmitter(engine, cfg, l.Clock, rng)
	modeling.Connect(upstream, l.Transmitter.InGate(), nil)

	l.Channel = modeling.NewChannel(cfg.Name+".Channel", cfg.Channel.Delay.VTime())
	l.Channel.SetDisabled(cfg.Channel.Disabled)

	l.Receiver = transceiver.MakeBuilder().
		WithEngine(engine).
		BuildPacketReceiver(cfg.Name + ".Receiver")
	modeling.Connect(l.Transmitter.OutGate(), l.Receiver.InGate(), l.Channel)

	if cfg.Decoder == nil {
		sink := queueing.NewPassiveSink(cfg.Name+".Sink", engine)
		modeling.Connect(l.Receiver.OutGate(), sink.In, nil)
		l.Sinks = append(l.Sinks, sink)

		return l
	}

	l.Decoder = redundancy.NewStreamDecoder(
		cfg.Name+".Decoder", engine, cfg.Decoder.Outputs)
	if err := l.Decoder.SetMappings(cfg.Decoder.Mappings); err != nil {
		panic(err)
	}

	modeling.Connect(l.Receiver.OutGate(), l.Decoder.In, nil)

	for i, out := range l.Decoder.Out {
		sink := queueing.NewPassiveSink(fmt.Sprintf("%s.Sink[%d]", cfg.Name, i), engine)
		modeling.Connect(out, sink.In, nil)
		l.Sinks = append(l.Sinks, sink)
	}

	return l
}

func buildClock(
	engine *timing.SerialEngine,
	cfg *Link,
	rng *rngstream.RngStream,
) *clock.OffsetClock {
	b := clock.MakeBuilder().WithEngine(engine)

	if cfg.Clock.MaxOffset > 0 {
		b = b.WithMaxOffset(cfg.Clock.MaxOffset.VTime())
	}

	if cfg.Clock.Random {
		b = b.WithRandomOffset(rng)
	} else {
		b = b.WithOffset(cfg.Clock.Offset.VTime())
	}

	return b.Build(cfg.Name + ".Clock")
}

func buildTransmitter(
	engine *timing.SerialEngine,
	cfg *Link,
	c clock.Clock,
	rng *rngstream.RngStream,
) transceiver.Transmitter {
	var datarate transceiver.DatarateParam = transceiver.ConstantDatarate(
		packet.Bps(cfg.Transmitter.Datarate))
	if cfg.Transmitter.Datarate == 0 {
		datarate = transceiver.NewUniformDatarate(
			packet.Bps(cfg.Transmitter.MinDatarate),
			packet.Bps(cfg.Transmitter.MaxDatarate),
			rng)
	}

	b := transceiver.MakeBuilder().
		WithEngine(engine).
		WithClock(c).
		WithDatarate(datarate)

	if cfg.Transmitter.Kind == KindStreamThrough {
		return b.BuildStreamThroughTransmitter(cfg.Name + ".Transmitter")
	}

	return b.BuildPacketTransmitter(cfg.Name + ".Transmitter")
}

func slowestRate(c TransmitterConfig) packet.Bps {
	if c.Datarate != 0 {
		return packet.Bps(c.Datarate)
	}

	return packet.Bps(c.MinDatarate)
}

// Components returns every component of the simulation.
func (s *Simulation) Components() []modeling.Component {
	var comps []modeling.Component

	for _, l := range s.Links {
		comps = append(comps, l.Source)

		if l.Queue != nil {
			comps = append(comps, l.Queue)
		}

		if l.Gate != nil {
			comps = append(comps, l.Gate)
		}

		comps = append(comps, l.Transmitter, l.Receiver)

		if l.Decoder != nil {
			comps = append(comps, l.Decoder)
		}

		for _, sink := range l.Sinks {
			comps = append(comps, sink)
		}
	}

	return comps
}

// Start starts the sources.
func (s *Simulation) Start() {
	for _, l := range s.Links {
		l.Source.Start(l.start)
	}
}

// Run starts the sources and runs until the scenario duration has passed.
func (s *Simulation) Run() error {
	s.Start()

	err := s.Engine.RunUntil(s.Scenario.Duration.VTime())
	s.Engine.Finished()

	return err
}

// LinkStats summarizes what happened on a link.
type LinkStats struct {
	Link       string
	Produced   int
	Refused    int
	QueueDrops int
	GatePassed int
	Delivered  int
	Bits       packet.B
	PerSink    []int
}

// Stats returns the statistics of every link.
func (s *Simulation) Stats() []LinkStats {
	stats := make([]LinkStats, 0, len(s.Links))

	for _, l := range s.Links {
		st := LinkStats{
			Link:     l.Name,
			Produced: l.Source.NumProduced(),
			Refused:  l.Source.NumFailed(),
		}

		if l.Queue != nil {
			st.QueueDrops = l.Queue.NumDropped()
		}

		if l.Gate != nil {
			st.GatePassed = l.Gate.NumPassed()
		}

		for _, sink := range l.Sinks {
			st.Delivered += sink.NumPackets()
			st.Bits += sink.NumBits()
			st.PerSink = append(st.PerSink, sink.NumPackets())
		}

		stats = append(stats, st)
	}

	return stats
}
