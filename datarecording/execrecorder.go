package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfoTable holds one row per property of the recorded run.
const ExecInfoTable = "exec_info"

// ExecInfo is one property of the recorded run.
type ExecInfo struct {
	Property string
	Value    string
}

const execTimeLayout = time.RFC3339Nano

// execRecorder collects facts about the process while it runs and writes
// them once the recording is closed.
type execRecorder struct {
	recorder DataRecorder
	pending  []ExecInfo
	now      func() time.Time
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return &execRecorder{
		recorder: recorder,
		now:      time.Now,
	}
}

func (e *execRecorder) add(property, value string) {
	e.pending = append(e.pending, ExecInfo{Property: property, Value: value})
}

// Start notes the start time, command line and working directory.
func (e *execRecorder) Start() {
	e.add("Start Time", e.now().Format(execTimeLayout))
	e.add("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "unknown: " + err.Error()
	}

	e.add("Working Directory", cwd)

	if host, err := os.Hostname(); err == nil {
		e.add("Host", host)
	}
}

// End adds the end time and writes every pending property.
func (e *execRecorder) End() {
	e.add("End Time", e.now().Format(execTimeLayout))

	for _, info := range e.pending {
		e.recorder.InsertData(ExecInfoTable, info)
	}

	e.pending = nil
}
