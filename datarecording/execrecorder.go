package datarecording

import (
	"os"
	"strings"
	"time"
)

const execInfoTable = "exec_info"

// ExecInfo is a property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how the program was run.
type ExecRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		tableName: execInfoTable,
		recorder:  recorder,
	}

	recorder.CreateTable(e.tableName, ExecInfo{})

	return e
}

// Start records the start time, the command, and the working directory.
func (e *ExecRecorder) Start() {
	e.Add("Start Time", time.Now().Format("2006-01-02 15:04:05.000000000"))
	e.Add("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Add("Working Directory", cwd)
}

// Add records an extra property, such as the scenario that is run.
func (e *ExecRecorder) Add(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes the properties along with the exit time.
func (e *ExecRecorder) End() {
	e.Add("End Time", time.Now().Format("2006-01-02 15:04:05.000000000"))

	for _, entry := range e.entries {
		e.recorder.InsertData(e.tableName, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
