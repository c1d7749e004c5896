package scenario

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/sarchlab/pktflow/queueing"
	"github.com/sarchlab/pktflow/redundancy"
	"github.com/sarchlab/pktflow/sim/naming"
	"github.com/sarchlab/pktflow/sim/timing"
)

// Validate reports every problem of the scenario at once.
func (s *Scenario) Validate() error {
	var result *multierror.Error

	if s.Duration <= 0 {
		result = multierror.Append(result,
			errors.New("duration must be positive"))
	}

	if len(s.Links) == 0 {
		result = multierror.Append(result, errors.New("no links"))
	}

	names := make(map[string]bool)

	for i := range s.Links {
		l := &s.Links[i]
		prefix := fmt.Sprintf("links[%d]:", i)

		if names[l.Name] {
			result = multierror.Append(result,
				fmt.Errorf("%s name %q is used more than once", prefix, l.Name))
		}

		names[l.Name] = true

		if err := l.validate(); err != nil {
			result = multierror.Append(result, multierror.Prefix(err, prefix))
		}
	}

	return result.ErrorOrNil()
}

func (l *Link) validate() error {
	var result *multierror.Error

	if !naming.IsValidName(l.Name) {
		result = multierror.Append(result,
			fmt.Errorf("name %q is not a valid component name", l.Name))
	}

	checks := []struct {
		prefix string
		err    error
	}{
		{"source:", l.Source.validate()},
		{"queue:", l.Queue.validate()},
		{"gate:", l.Gate.validate()},
		{"transmitter:", l.Transmitter.validate()},
		{"channel:", l.Channel.validate()},
		{"clock:", l.Clock.validate()},
		{"decoder:", l.Decoder.validate()},
	}

	for _, c := range checks {
		if c.err != nil {
			result = multierror.Append(result, multierror.Prefix(c.err, c.prefix))
		}
	}

	return result.ErrorOrNil()
}

func (c SourceConfig) validate() error {
	var result *multierror.Error

	if c.Interval <= 0 {
		result = multierror.Append(result,
			errors.New("interval must be positive"))
	}

	if c.Length <= 0 {
		result = multierror.Append(result, errors.New("length must be positive"))
	}

	if c.Limit < 0 {
		result = multierror.Append(result, errors.New("limit must not be negative"))
	}

	if c.Start < 0 {
		result = multierror.Append(result, errors.New("start must not be negative"))
	}

	for _, stream := range c.Streams {
		if stream == "" {
			result = multierror.Append(result, errors.New("empty stream name"))
		}
	}

	return result.ErrorOrNil()
}

func (c *QueueConfig) validate() error {
	if c == nil {
		return nil
	}

	if c.Capacity <= 0 {
		return errors.New("capacity must be positive")
	}

	return nil
}

// Schedule converts the gate configuration.
func (c *GateConfig) Schedule() queueing.GateSchedule {
	s := queueing.GateSchedule{
		InitiallyOpen: c.InitiallyOpen == nil || *c.InitiallyOpen,
		Offset:        c.Offset.VTime(),
	}

	for _, d := range c.Durations {
		s.Durations = append(s.Durations, d.VTime())
	}

	return s
}

func (c *GateConfig) validate() error {
	if c == nil {
		return nil
	}

	schedule := c.Schedule()

	return schedule.Validate()
}

func (c TransmitterConfig) validate() error {
	var result *multierror.Error

	if c.Kind != KindPacket && c.Kind != KindStreamThrough {
		result = multierror.Append(result, fmt.Errorf(
			"kind %q is neither %q nor %q", c.Kind, KindPacket, KindStreamThrough))
	}

	switch {
	case c.Datarate != 0 && (c.MinDatarate != 0 || c.MaxDatarate != 0):
		result = multierror.Append(result, errors.New(
			"datarate cannot be combined with min_datarate and max_datarate"))
	case c.Datarate < 0:
		result = multierror.Append(result,
			errors.New("datarate must be positive"))
	case c.Datarate == 0 && (c.MinDatarate <= 0 || c.MaxDatarate < c.MinDatarate):
		result = multierror.Append(result, errors.New(
			"min_datarate must be positive and not above max_datarate"))
	}

	return result.ErrorOrNil()
}

func (c ChannelConfig) validate() error {
	if c.Delay < 0 {
		return errors.New("delay must not be negative")
	}

	return nil
}

func (c ClockConfig) validate() error {
	var result *multierror.Error

	if c.MaxOffset < 0 {
		result = multierror.Append(result,
			errors.New("max_offset must not be negative"))
	}

	if c.Random && c.MaxOffset <= 0 {
		result = multierror.Append(result,
			errors.New("a random offset requires a positive max_offset"))
	}

	if c.Random && c.Offset != 0 {
		result = multierror.Append(result,
			errors.New("offset cannot be combined with a random offset"))
	}

	if c.MaxOffset > 0 && (c.Offset > c.MaxOffset || c.Offset < -c.MaxOffset) {
		result = multierror.Append(result, fmt.Errorf(
			"offset %s exceeds max_offset %s",
			timing.VTime(c.Offset), timing.VTime(c.MaxOffset)))
	}

	return result.ErrorOrNil()
}

func (c *DecoderConfig) validate() error {
	if c == nil {
		return nil
	}

	if c.Outputs <= 0 {
		return errors.New("outputs must be positive")
	}

	return redundancy.ValidateMappings(c.Mappings, c.Outputs)
}
