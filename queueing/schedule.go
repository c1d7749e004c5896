package queueing

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/sarchlab/pktflow/sim/timing"
)

// A GateSchedule is a cyclic list of windows. The first window is open if
// InitiallyOpen is set and the windows alternate from there. Offset shifts
// the cycle: the gate starts Offset into it.
type GateSchedule struct {
	InitiallyOpen bool
	Durations     []timing.VTime
	Offset        timing.VTime
}

// Validate reports everything that is wrong with the schedule.
func (s GateSchedule) Validate() error {
	var result *multierror.Error

	if len(s.Durations) == 0 {
		result = multierror.Append(result,
			errors.New("gate schedule has no durations"))
	}

	if len(s.Durations)%2 != 0 {
		result = multierror.Append(result, fmt.Errorf(
			"gate schedule has an odd number of durations (%d)",
			len(s.Durations)))
	}

	hasNegative := false

	for i, d := range s.Durations {
		if d < 0 {
			hasNegative = true
			result = multierror.Append(result, fmt.Errorf(
				"gate schedule duration %d is negative (%s)", i, d))
		}
	}

	if len(s.Durations) > 0 && !hasNegative && s.Period() == 0 {
		result = multierror.Append(result,
			errors.New("gate schedule durations are all zero"))
	}

	if s.Offset < 0 {
		result = multierror.Append(result, fmt.Errorf(
			"gate schedule offset is negative (%s)", s.Offset))
	}

	return result.ErrorOrNil()
}

// Period returns the length of one cycle.
func (s GateSchedule) Period() timing.VTime {
	var period timing.VTime

	for _, d := range s.Durations {
		period += d
	}

	return period
}

// IsOpenAt tells if the gate is open at time t after the schedule started.
// A schedule without a positive period, which Validate rejects, stays in its
// initial state.
func (s GateSchedule) IsOpenAt(t timing.VTime) bool {
	period := s.Period()
	if period <= 0 {
		return s.InitiallyOpen
	}

	phase := (s.Offset + t) % period
	open := s.InitiallyOpen

	for _, d := range s.Durations {
		if phase < d {
			return open
		}

		phase -= d
		open = !open
	}

	return open
}

// Clone returns a copy that does not share the duration list.
func (s GateSchedule) Clone() GateSchedule {
	c := s
	c.Durations = append([]timing.VTime(nil), s.Durations...)

	return c
}
