package api

import (
	"time"
)

// Outcome is the terminal result of one task within an execution.
// Exactly one of the three terminal statuses applies: SUCCEEDED with a
// value, FAILED with a cause, or SKIPPED with the name of the upstream task
// at the root of the skip.
type Outcome struct {
	Status Status `json:"status"`

	// Value is the task result, set when Status is SUCCEEDED.
	Value interface{} `json:"value,omitempty"`

	// Cause describes why the task failed or was skipped. For failures it
	// is the error message of the last attempt.
	Cause string `json:"cause,omitempty"`

	// UpstreamFailed names the failed task a skip originates from. It is
	// the transitive root cause, not necessarily a direct upstream.
	UpstreamFailed string `json:"upstreamFailed,omitempty"`

	// Attempts is the number of attempts made, 0 for skipped tasks.
	Attempts int `json:"attempts,omitempty"`

	// Err is the error from the last attempt, kept for callers that need
	// to inspect it. Not serialized, Cause carries the message.
	Err error `json:"-"`

	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// ExecutionResult is the outcome of one flow execution: exactly one Outcome
// per task of the flow. It is created fresh for every execution.
type ExecutionResult struct {
	RunID    string             `json:"runId,omitempty"`
	Flow     string             `json:"flow"`
	Tasks    map[string]Outcome `json:"tasks"`
	Duration time.Duration      `json:"duration"`
}

// Succeeded returns true if every task of the execution succeeded.
func (r ExecutionResult) Succeeded() bool {
	for _, o := range r.Tasks {
		if o.Status != StatusSucceeded {
			return false
		}
	}
	return true
}

// Values returns the task name to value mapping for succeeded tasks.
func (r ExecutionResult) Values() map[string]interface{} {
	values := make(map[string]interface{})
	for name, o := range r.Tasks {
		if o.Status == StatusSucceeded {
			values[name] = o.Value
		}
	}
	return values
}
