// Package clock provides per-component local time.
//
// A clock reads the global simulation time shifted by a fixed offset. Events
// are scheduled against the local reading and translated back to the global
// timeline by the clock.
package clock

import (
	"log"

	"github.com/sarchlab/pktflow/sim/timing"
)

// Time is a reading of a local clock, in picoseconds.
type Time int64

// VTime converts a clock reading into a span on the simulated timeline. It
// does not apply any offset.
func (t Time) VTime() timing.VTime {
	return timing.VTime(t)
}

// String formats the reading like a VTime.
func (t Time) String() string {
	return timing.VTime(t).String()
}

// A Clock gives the local time of a component and schedules timers against it.
type Clock interface {
	// Now returns the local time.
	Now() Time

	// ToSimTime translates a local reading into global simulation time.
	ToSimTime(t Time) timing.VTime

	// FromSimTime translates global simulation time into a local reading.
	FromSimTime(t timing.VTime) Time

	// ScheduleAt schedules the timer to fire when the local clock reads t.
	ScheduleAt(t Time, timer *Timer)

	// ScheduleAfter schedules the timer to fire after the given local
	// duration.
	ScheduleAfter(d timing.VTime, timer *Timer)

	// Cancel removes a pending timer. It returns false if the timer was not
	// pending.
	Cancel(timer *Timer) bool
}

// OffsetClock is a clock whose reading is always the global time plus a fixed
// offset.
type OffsetClock struct {
	name   string
	engine timing.EventScheduler
	offset timing.VTime
}

// Name returns the name of the clock.
func (c *OffsetClock) Name() string {
	return c.name
}

// Offset returns the difference between the local and the global time.
func (c *OffsetClock) Offset() timing.VTime {
	return c.offset
}

// Now returns the local time.
func (c *OffsetClock) Now() Time {
	return c.FromSimTime(c.engine.CurrentTime())
}

// ToSimTime translates a local reading into global simulation time.
func (c *OffsetClock) ToSimTime(t Time) timing.VTime {
	return timing.VTime(t) - c.offset
}

// FromSimTime translates global simulation time into a local reading.
func (c *OffsetClock) FromSimTime(t timing.VTime) Time {
	return Time(t + c.offset)
}

// ScheduleAt schedules the timer at a local clock reading.
func (c *OffsetClock) ScheduleAt(t Time, timer *Timer) {
	if timer.scheduled {
		log.Panicf("clock %s: timer %s is already scheduled",
			c.name, timer.name)
	}

	simTime := c.ToSimTime(t)
	if simTime < c.engine.CurrentTime() {
		log.Panicf("clock %s: cannot schedule timer %s at %s, now is %s",
			c.name, timer.name, t, c.Now())
	}

	timer.arrivalClock = t
	timer.arrivalTime = simTime
	timer.scheduled = true

	c.engine.Schedule(timer)
}

// ScheduleAfter schedules the timer after a local duration.
func (c *OffsetClock) ScheduleAfter(d timing.VTime, timer *Timer) {
	c.ScheduleAt(c.Now()+Time(d), timer)
}

// Cancel removes a pending timer.
func (c *OffsetClock) Cancel(timer *Timer) bool {
	if !timer.scheduled {
		return false
	}

	timer.scheduled = false

	return c.engine.Cancel(timer)
}
