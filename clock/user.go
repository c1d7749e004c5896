package clock

import "github.com/sarchlab/pktflow/sim/timing"

// User is embedded by components that schedule their timers on a clock.
type User struct {
	clock Clock
}

// MakeUser creates a User that uses the given clock.
func MakeUser(c Clock) User {
	return User{clock: c}
}

// Clock returns the clock in use.
func (u *User) Clock() Clock {
	return u.clock
}

// SetClock replaces the clock. It must be called before any timer is
// scheduled.
func (u *User) SetClock(c Clock) {
	u.clock = c
}

// ClockTime returns the local time.
func (u *User) ClockTime() Time {
	return u.clock.Now()
}

// ScheduleClockEventAt schedules a timer at a local reading.
func (u *User) ScheduleClockEventAt(t Time, timer *Timer) {
	u.clock.ScheduleAt(t, timer)
}

// ScheduleClockEventAfter schedules a timer after a local duration.
func (u *User) ScheduleClockEventAfter(d timing.VTime, timer *Timer) {
	u.clock.ScheduleAfter(d, timer)
}

// CancelClockEvent cancels a timer if it is pending.
func (u *User) CancelClockEvent(timer *Timer) bool {
	return u.clock.Cancel(timer)
}
