package tracing

import (
	"sync"

	"github.com/sarchlab/pktflow/sim/timing"
)

// AverageTimeTracer collects the average duration of a kind of task, such as
// the time packets spend on the wire. Aborted tasks are not counted.
type AverageTimeTracer struct {
	filter        TaskFilter
	lock          sync.Mutex
	totalTime     timing.VTime
	inflightTasks map[string]Task
	taskCount     uint64
}

// NewAverageTimeTracer creates a new AverageTimeTracer
func NewAverageTimeTracer(filter TaskFilter) *AverageTimeTracer {
	t := &AverageTimeTracer{
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}

	return t
}

// AverageTime returns the average task duration, rounded down.
func (t *AverageTimeTracer) AverageTime() timing.VTime {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.taskCount == 0 {
		return 0
	}

	return t.totalTime / timing.VTime(t.taskCount)
}

// TotalCount returns the total number of tasks.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

// StartTask records the task start time
func (t *AverageTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// EndTask records the end of the task
func (t *AverageTimeTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	originalTask, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	delete(t.inflightTasks, task.ID)

	if task.Aborted {
		return
	}

	t.totalTime += task.EndTime - originalTask.StartTime
	t.taskCount++
}

// AddMilestone does nothing
func (t *AverageTimeTracer) AddMilestone(_ Milestone) {
	// Do nothing
}
