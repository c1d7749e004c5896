package tracing

import (
	"context"

	"github.com/sarchlab/pktflow/datarecording"
)

// TraceReader reads the tasks and milestones that a DBTracer recorded.
type TraceReader struct {
	reader *datarecording.Reader
}

// NewTraceReader reads traces from a recording.
func NewTraceReader(reader *datarecording.Reader) *TraceReader {
	return &TraceReader{reader: reader}
}

// Tasks returns the tasks of the given kind in start order. An empty kind
// matches every task.
func (r *TraceReader) Tasks(
	ctx context.Context,
	kind string,
) ([]TaskEntry, error) {
	return datarecording.Select[TaskEntry](ctx, r.reader, TaskTableName,
		byKind(kind, "StartTime, ID"))
}

// AbortedTasks returns the tasks that ended without completing.
func (r *TraceReader) AbortedTasks(ctx context.Context) ([]TaskEntry, error) {
	return datarecording.Select[TaskEntry](ctx, r.reader, TaskTableName,
		datarecording.Filter{Where: "Aborted = 1", OrderBy: "StartTime, ID"})
}

// Milestones returns the milestones of the given kind in time order. An
// empty kind matches every milestone.
func (r *TraceReader) Milestones(
	ctx context.Context,
	kind string,
) ([]MilestoneEntry, error) {
	return datarecording.Select[MilestoneEntry](ctx, r.reader,
		MilestoneTableName, byKind(kind, "Time"))
}

func byKind(kind, order string) datarecording.Filter {
	f := datarecording.Filter{OrderBy: order}
	if kind != "" {
		f.Where = "Kind = ?"
		f.Args = []any{kind}
	}

	return f
}
