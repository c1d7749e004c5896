package tracing

import (
	"sort"
	"sync"
)

// MilestoneCountTracer counts the milestones of one kind by what happened,
// for example the drops by reason.
type MilestoneCountTracer struct {
	kind  string
	lock  sync.Mutex
	count map[string]uint64
}

// NewMilestoneCountTracer creates a tracer that counts milestones of the
// given kind.
func NewMilestoneCountTracer(kind string) *MilestoneCountTracer {
	return &MilestoneCountTracer{
		kind:  kind,
		count: make(map[string]uint64),
	}
}

// Names returns what has been counted, sorted.
func (t *MilestoneCountTracer) Names() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.count))
	for name := range t.count {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Count returns how many times a milestone has been seen.
func (t *MilestoneCountTracer) Count(what string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count[what]
}

// Total returns the number of milestones counted.
func (t *MilestoneCountTracer) Total() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	var total uint64
	for _, c := range t.count {
		total += c
	}

	return total
}

// StartTask does nothing
func (t *MilestoneCountTracer) StartTask(_ Task) {}

// EndTask does nothing
func (t *MilestoneCountTracer) EndTask(_ Task) {}

// AddMilestone counts the milestone.
func (t *MilestoneCountTracer) AddMilestone(m Milestone) {
	if m.Kind != t.kind {
		return
	}

	t.lock.Lock()
	t.count[m.What]++
	t.lock.Unlock()
}
