// Package scenario describes simulations in YAML and builds them.
//
// A scenario is a list of links. Each link is a chain of elements:
//
//	source -> [queue] -> [gate] -> transmitter -> channel -> receiver
//	    -> [decoder] -> sinks
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/redundancy"
	"github.com/sarchlab/pktflow/sim/timing"
)

// Transmitter kinds.
const (
	KindPacket        = "packet"
	KindStreamThrough = "stream_through"
)

// A Scenario is the root of a scenario file.
type Scenario struct {
	Name     string   `yaml:"name"`
	Duration Duration `yaml:"duration"`
	Links    []Link   `yaml:"links"`
}

// A Link is a chain from one source to its sinks.
type Link struct {
	Name        string            `yaml:"name,omitempty"`
	Source      SourceConfig      `yaml:"source"`
	Queue       *QueueConfig      `yaml:"queue,omitempty"`
	Gate        *GateConfig       `yaml:"gate,omitempty"`
	Transmitter TransmitterConfig `yaml:"transmitter"`
	Channel     ChannelConfig     `yaml:"channel"`
	Clock       ClockConfig       `yaml:"clock"`
	Decoder     *DecoderConfig    `yaml:"decoder,omitempty"`
}

// SourceConfig configures the packet source of a link.
type SourceConfig struct {
	Interval Duration `yaml:"interval"`
	Length   Length   `yaml:"length"`
	Streams  []string `yaml:"streams,omitempty"`
	Limit    int      `yaml:"limit,omitempty"`
	Start    Duration `yaml:"start,omitempty"`
}

// QueueConfig configures the queue in front of the transmitter.
type QueueConfig struct {
	Capacity int  `yaml:"capacity"`
	DropTail bool `yaml:"drop_tail,omitempty"`
}

// GateConfig configures a periodic gate in front of the transmitter. With a
// guard band, a packet only passes if its transmission at the slowest
// configured data rate ends before the gate closes.
type GateConfig struct {
	InitiallyOpen *bool      `yaml:"initially_open,omitempty"`
	Durations     []Duration `yaml:"durations"`
	Offset        Duration   `yaml:"offset,omitempty"`
	GuardBand     bool       `yaml:"guard_band,omitempty"`
}

// TransmitterConfig configures the transmitter. Either Datarate is set, or
// MinDatarate and MaxDatarate give a uniform range drawn per packet.
type TransmitterConfig struct {
	Kind        string `yaml:"kind,omitempty"`
	Datarate    Rate   `yaml:"datarate,omitempty"`
	MinDatarate Rate   `yaml:"min_datarate,omitempty"`
	MaxDatarate Rate   `yaml:"max_datarate,omitempty"`
}

// ChannelConfig configures the channel between transmitter and receiver.
type ChannelConfig struct {
	Delay    Duration `yaml:"delay"`
	Disabled bool     `yaml:"disabled,omitempty"`
}

// ClockConfig configures the clock of the link. A MaxOffset of zero means
// the offset is not bounded.
type ClockConfig struct {
	Offset    Duration `yaml:"offset,omitempty"`
	MaxOffset Duration `yaml:"max_offset,omitempty"`
	Random    bool     `yaml:"random,omitempty"`
}

// DecoderConfig configures a stream decoder after the receiver. Each output
// gets its own sink.
type DecoderConfig struct {
	Outputs  int                        `yaml:"outputs"`
	Mappings []redundancy.StreamMapping `yaml:"mappings"`
}

// Duration is a simulation time written as "10us" or "1.5ms".
type Duration timing.VTime

// VTime converts the duration.
func (d Duration) VTime() timing.VTime {
	return timing.VTime(d)
}

// UnmarshalYAML parses the duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	t, err := timing.ParseVTime(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*d = Duration(t)

	return nil
}

// MarshalYAML writes the duration with its unit.
func (d Duration) MarshalYAML() (any, error) {
	return timing.VTime(d).String(), nil
}

// Rate is a data rate written as "1Gbps".
type Rate packet.Bps

// UnmarshalYAML parses the rate.
func (r *Rate) UnmarshalYAML(value *yaml.Node) error {
	v, err := packet.ParseBps(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*r = Rate(v)

	return nil
}

// MarshalYAML writes the rate with its unit.
func (r Rate) MarshalYAML() (any, error) {
	return packet.Bps(r).String(), nil
}

// Length is a packet length written as "1500B" or "12000b".
type Length packet.B

// UnmarshalYAML parses the length.
func (l *Length) UnmarshalYAML(value *yaml.Node) error {
	v, err := packet.ParseB(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*l = Length(v)

	return nil
}

// MarshalYAML writes the length with its unit.
func (l Length) MarshalYAML() (any, error) {
	return packet.B(l).String(), nil
}

// Parse decodes a scenario and fills in the defaults. It does not validate.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	s.applyDefaults()

	return s, nil
}

// Load reads, decodes and validates a scenario file.
func Load(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filename, err)
	}

	return s, nil
}

// Marshal encodes the scenario, defaults included.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Scenario) applyDefaults() {
	if s.Name == "" {
		s.Name = "Scenario"
	}

	for i := range s.Links {
		l := &s.Links[i]

		if l.Name == "" {
			l.Name = fmt.Sprintf("Link[%d]", i)
		}

		if l.Source.Interval == 0 {
			l.Source.Interval = Duration(12 * timing.Microsecond)
		}

		if l.Source.Length == 0 {
			l.Source.Length = Length(1500 * packet.Byte)
		}

		if l.Queue != nil && l.Queue.Capacity == 0 {
			l.Queue.Capacity = 100
		}

		if l.Gate != nil && l.Gate.InitiallyOpen == nil {
			open := true
			l.Gate.InitiallyOpen = &open
		}

		if l.Transmitter.Kind == "" {
			l.Transmitter.Kind = KindPacket
		}

		if l.Transmitter.Datarate == 0 && l.Transmitter.MinDatarate == 0 &&
			l.Transmitter.MaxDatarate == 0 {
			l.Transmitter.Datarate = Rate(packet.Gbps)
		}
	}
}
