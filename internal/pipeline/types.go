// Package pipeline carries per-file progress events from the driver to
// whoever renders them.
package pipeline

import "time"

// Stage describes a per-file pipeline phase.
type Stage string

const (
	// StageLoad reads the file and normalizes line endings.
	StageLoad Stage = "load"
	// StageParse covers lexing and parsing.
	StageParse Stage = "parse"
	// StageLint runs the rule engine.
	StageLint Stage = "lint"
	// StageFix applies fixes after all files are analyzed.
	StageFix Stage = "fix"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusCached means the result came from the on-disk cache.
	StatusCached Status = "cached"
	// StatusSkipped marks files never started because of --fail-fast.
	StatusSkipped Status = "skipped"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Final reports whether s ends the file's progress.
func (s Status) Final() bool {
	switch s {
	case StatusDone, StatusCached, StatusSkipped, StatusError:
		return true
	default:
		return false
	}
}

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Findings int
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: workers emit events in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit sends ev to sink when sink is set.
func Emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// EmitQueued marks every file as queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}
}
