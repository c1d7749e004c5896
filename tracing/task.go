// Package tracing turns the hooks of the flow elements into tasks and
// milestones and collects them.
package tracing

import "github.com/sarchlab/pktflow/sim/timing"

// Task kinds.
const (
	KindTransmission = "transmission"
	KindReception    = "reception"
)

// Milestone kinds.
const (
	MilestoneKindDrop      = "drop"
	MilestoneKindGateState = "gate_state"
)

// A Task is something that takes time at a location, such as putting a
// packet on the wire.
type Task struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"`
	What      string       `json:"what"`
	Location  string       `json:"location"`
	StartTime timing.VTime `json:"start_time"`
	EndTime   timing.VTime `json:"end_time"`
	Aborted   bool         `json:"aborted"`
	Detail    any          `json:"-"`
}

// A Milestone is something that happens at a point in time, such as a drop.
type Milestone struct {
	Kind     string       `json:"kind"`
	What     string       `json:"what"`
	Location string       `json:"location"`
	Subject  string       `json:"subject"`
	Time     timing.VTime `json:"time"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// KindFilter accepts the tasks of one kind.
func KindFilter(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}
