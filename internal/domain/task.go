package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

// TaskState is the server-side state of a bulk task.
type TaskState string

const (
	TaskNew        TaskState = "NEW"
	TaskQueued     TaskState = "QUEUED"
	TaskInProgress TaskState = "IN_PROGRESS"
	TaskDone       TaskState = "DONE"
	TaskCancelled  TaskState = "CANCELLED"
	TaskUnknown    TaskState = "UNKNOWN"
)

// ParseTaskState normalizes a state value from a status body.
func ParseTaskState(s string) TaskState {
	switch state := TaskState(strings.ToUpper(strings.TrimSpace(s))); state {
	case TaskNew, TaskQueued, TaskInProgress, TaskDone, TaskCancelled:
		return state
	default:
		return TaskUnknown
	}
}

// Terminal reports whether polling stops in this state.
func (s TaskState) Terminal() bool {
	return s == TaskDone || s == TaskCancelled
}

// BulkTask is a server-side asynchronous job known to the client only by uuid.
type BulkTask struct {
	UUID    string
	State   TaskState
	Payload map[string]any
}

// AcceptanceCheck is an endpoint-specific predicate a DONE body must satisfy to be final.
type AcceptanceCheck func(body map[string]any) bool

// TaskResult is the final decoded status body of a polled task.
type TaskResult struct {
	UUID    string
	State   TaskState
	Body    map[string]any
	Elapsed time.Duration
}

// Succeeded reports whether the task reached DONE.
func (r *TaskResult) Succeeded() bool {
	return r != nil && r.State == TaskDone
}

// PollRequest describes one task to drive to completion.
type PollRequest struct {
	TaskUUID          string
	StatusURLTemplate string
	Timeout           time.Duration
	Checks            []AcceptanceCheck
	Backoff           Backoff
}

// Backoff configures exponential delays between polls.
type Backoff struct {
	Base       time.Duration
	Max        time.Duration
	Multiplier float64
}

// Delay returns the wait before the given retry, starting at 1: Base, then
// Base*Multiplier^(attempt-1), capped at Max.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	delay := float64(b.Base) * math.Pow(multiplier, float64(attempt-1))
	if b.Max > 0 && delay > float64(b.Max) {
		delay = float64(b.Max)
	}

	return time.Duration(delay)
}

// TaskPoller drives a bulk task until it is terminal or its deadline passes.
type TaskPoller interface {
	Poll(ctx context.Context, req PollRequest) (*TaskResult, error)
}
