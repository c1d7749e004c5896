package tracing

import (
	"log"
)

// LogTracer prints tasks when they end and milestones when they happen.
type LogTracer struct {
	logger        *log.Logger
	inflightTasks map[string]Task
}

// NewLogTracer creates a tracer that writes to the logger.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{
		logger:        logger,
		inflightTasks: make(map[string]Task),
	}
}

// StartTask remembers the task until it ends.
func (t *LogTracer) StartTask(task Task) {
	t.inflightTasks[task.ID] = task
}

// EndTask prints the task.
func (t *LogTracer) EndTask(task Task) {
	original, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	delete(t.inflightTasks, task.ID)

	status := "done"
	if task.Aborted {
		status = "aborted"
	}

	t.logger.Printf("%s-%s, %s, %s %s, %s\n",
		original.StartTime, task.EndTime, original.Location,
		original.Kind, original.What, status)
}

// AddMilestone prints the milestone.
func (t *LogTracer) AddMilestone(m Milestone) {
	if m.Subject == "" {
		t.logger.Printf("%s, %s, %s %s\n", m.Time, m.Location, m.Kind, m.What)
		return
	}

	t.logger.Printf("%s, %s, %s %s, %s\n",
		m.Time, m.Location, m.Kind, m.What, m.Subject)
}
