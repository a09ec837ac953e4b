package schedule

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes scheduling errors.
type ErrorCode string

const (
	// ErrCodeEmptyInput indicates an empty task list.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"

	// ErrCodeDuplicateTask indicates two tasks share the same name.
	ErrCodeDuplicateTask ErrorCode = "DUPLICATE_TASK"

	// ErrCodeInvalidDuration indicates a duration that is zero, negative or NaN.
	ErrCodeInvalidDuration ErrorCode = "INVALID_DURATION"

	// ErrCodeUnknownPredecessor indicates a predecessor reference with no
	// matching task.
	ErrCodeUnknownPredecessor ErrorCode = "UNKNOWN_PREDECESSOR"

	// ErrCodeCycleDetected indicates a directed cycle in the predecessor graph.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"

	// ErrCodeInternal indicates an engine defect (e.g. a negative margin on a
	// validated DAG). Never a user input problem.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ScheduleError is a structured error returned by Compute.
//
// Every error is detected before propagation runs; Compute is all-or-nothing
// and never returns a partial Result alongside an error. The engine does not
// guess fixes (an unknown predecessor is reported, never dropped), so the
// error must carry enough context for the caller to render a useful message:
// the offending task, the bad reference, or a node on the cycle.
type ScheduleError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Task names the offending task, when applicable.
	Task string

	// Predecessor names the bad reference for UNKNOWN_PREDECESSOR errors.
	Predecessor string
}

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	if e.Task != "" {
		return fmt.Sprintf("%s: %s (task=%q)", e.Code, e.Message, e.Task)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsEmptyInputError reports whether err is an EMPTY_INPUT schedule error.
func IsEmptyInputError(err error) bool { return hasCode(err, ErrCodeEmptyInput) }

// IsDuplicateTaskError reports whether err is a DUPLICATE_TASK schedule error.
func IsDuplicateTaskError(err error) bool { return hasCode(err, ErrCodeDuplicateTask) }

// IsInvalidDurationError reports whether err is an INVALID_DURATION schedule error.
func IsInvalidDurationError(err error) bool { return hasCode(err, ErrCodeInvalidDuration) }

// IsUnknownPredecessorError reports whether err is an UNKNOWN_PREDECESSOR
// schedule error.
func IsUnknownPredecessorError(err error) bool { return hasCode(err, ErrCodeUnknownPredecessor) }

// IsCycleError reports whether err is a CYCLE_DETECTED schedule error.
func IsCycleError(err error) bool { return hasCode(err, ErrCodeCycleDetected) }

// IsInputError reports whether err is any of the user-input error codes, as
// opposed to an internal defect. Transport layers use this to pick between
// 400 and 500 responses.
func IsInputError(err error) bool {
	var se *ScheduleError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code != ErrCodeInternal
}

func hasCode(err error, code ErrorCode) bool {
	var se *ScheduleError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func newEmptyInputError() *ScheduleError {
	return &ScheduleError{
		Code:    ErrCodeEmptyInput,
		Message: "no tasks submitted",
	}
}

func newDuplicateTaskError(name string) *ScheduleError {
	return &ScheduleError{
		Code:    ErrCodeDuplicateTask,
		Message: "two tasks share the same name",
		Task:    name,
	}
}

func newInvalidDurationError(name string, duration float64) *ScheduleError {
	return &ScheduleError{
		Code:    ErrCodeInvalidDuration,
		Message: fmt.Sprintf("duration must be a positive number, got %v", duration),
		Task:    name,
	}
}

func newUnknownPredecessorError(task, predecessor string) *ScheduleError {
	return &ScheduleError{
		Code:        ErrCodeUnknownPredecessor,
		Message:     fmt.Sprintf("predecessor %q does not match any task", predecessor),
		Task:        task,
		Predecessor: predecessor,
	}
}

func newCycleError(node string) *ScheduleError {
	return &ScheduleError{
		Code:    ErrCodeCycleDetected,
		Message: "predecessor graph contains a cycle",
		Task:    node,
	}
}

func newInternalError(format string, args ...any) *ScheduleError {
	return &ScheduleError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}
