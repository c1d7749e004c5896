package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/pktflow/datarecording"
	"github.com/sarchlab/pktflow/sim/timing"
)

// Table names used by the DBTracer.
const (
	TaskTableName      = "trace"
	MilestoneTableName = "trace_milestones"
)

// TaskEntry is a row of the task table. Times are in picoseconds.
type TaskEntry struct {
	ID        string
	Kind      string
	What      string
	Location  string
	StartTime int64
	EndTime   int64
	Aborted   bool
}

// MilestoneEntry is a row of the milestone table. The time is in
// picoseconds.
type MilestoneEntry struct {
	Kind     string
	What     string
	Location string
	Subject  string
	Time     int64
}

// DBTracer is a tracer that stores tasks and milestones in a data recorder.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller timing.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime timing.VTime

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer and its tables.
func NewDBTracer(
	timeTeller timing.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(TaskTableName, TaskEntry{})
	dataRecorder.CreateTable(MilestoneTableName, MilestoneEntry{})

	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		endTime:      timing.Never,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange only keeps the records that overlap [startTime, endTime].
// An endTime of timing.Never means no upper bound.
func (t *DBTracer) SetTimeRange(startTime, endTime timing.VTime) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

func (t *DBTracer) afterRange(time timing.VTime) bool {
	return t.endTime != timing.Never && time > t.endTime
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task.ID == "" {
		panic("task ID must be set")
	}

	if t.afterRange(task.StartTime) {
		return
	}

	t.tracingTasks[task.ID] = task
}

// EndTask writes the task.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	if task.EndTime < t.startTime {
		return
	}

	t.backend.InsertData(TaskTableName, TaskEntry{
		ID:        originalTask.ID,
		Kind:      originalTask.Kind,
		What:      originalTask.What,
		Location:  originalTask.Location,
		StartTime: int64(originalTask.StartTime),
		EndTime:   int64(task.EndTime),
		Aborted:   task.Aborted,
	})
}

// AddMilestone writes the milestone.
func (t *DBTracer) AddMilestone(m Milestone) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if m.Time < t.startTime || t.afterRange(m.Time) {
		return
	}

	t.backend.InsertData(MilestoneTableName, MilestoneEntry{
		Kind:     m.Kind,
		What:     m.What,
		Location: m.Location,
		Subject:  m.Subject,
		Time:     int64(m.Time),
	})
}

// NumInflightTasks returns the number of tasks that started but have not
// ended.
func (t *DBTracer) NumInflightTasks() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.tracingTasks)
}

// Terminate writes the unfinished tasks as aborted at the current time and
// flushes the recorder.
func (t *DBTracer) Terminate() {
	t.mu.Lock()

	now := t.timeTeller.CurrentTime()
	for _, task := range t.tracingTasks {
		t.backend.InsertData(TaskTableName, TaskEntry{
			ID:        task.ID,
			Kind:      task.Kind,
			What:      task.What,
			Location:  task.Location,
			StartTime: int64(task.StartTime),
			EndTime:   int64(now),
			Aborted:   true,
		})
	}

	t.tracingTasks = make(map[string]Task)
	t.mu.Unlock()

	t.backend.Flush()
}
