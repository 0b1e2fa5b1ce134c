package engineerr

import (
	"fmt"
	"runtime/debug"
)

// PanicError records a recovered panic from a thread- or process-level
// goroutine, tagged with enough identifying context (run, task, stage) to
// locate which unit of work crashed and why.
type PanicError struct {
	RunID     string
	TaskID    string
	Stage     string
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s (run=%s task=%s): %v", e.Stage, e.RunID, e.TaskID, e.Recovered)
}

// AsAppError converts a PanicError into the engine's AppError shape so
// callers that only handle *AppError still see it.
func (e *PanicError) AsAppError() *AppError {
	return Wrap(CodePanic, e.Error(), e).
		WithDetail("run_id", e.RunID).
		WithDetail("task_id", e.TaskID).
		WithDetail("stage", e.Stage).
		WithDetail("stack", string(e.Stack))
}

// Recover captures a panic into a *PanicError if one is in flight; it is a
// no-op otherwise. Call it as a deferred function at the boundary of every
// goroutine the engine spawns:
//
//	defer func() { err = engineerr.Recover("thread", runID, taskID, recover(), err) }()
func Recover(stage, runID, taskID string, recovered any, existing error) error {
	if recovered == nil {
		return existing
	}
	return (&PanicError{
		RunID:     runID,
		TaskID:    taskID,
		Stage:     stage,
		Recovered: recovered,
		Stack:     debug.Stack(),
	}).AsAppError()
}
