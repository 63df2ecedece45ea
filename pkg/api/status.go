package api

// Status is a task status during and after an execution.
type Status string

const (
	// StatusPending default status, the task has not started yet.
	StatusPending Status = "PENDING"

	// StatusRunning status for tasks currently executing an attempt.
	StatusRunning Status = "RUNNING"

	// StatusRetrying status for tasks waiting between two attempts.
	StatusRetrying Status = "RETRYING"

	// StatusSucceeded status for tasks that completed successfully.
	StatusSucceeded Status = "SUCCEEDED"

	// StatusFailed status for tasks whose last attempt failed.
	StatusFailed Status = "FAILED"

	// StatusSkipped status for tasks never invoked, either because an
	// upstream task failed or because the run was cancelled.
	StatusSkipped Status = "SKIPPED"
)

// Finished returns true if the status is terminal.
func (s Status) Finished() bool {
	for _, fs := range []Status{StatusSucceeded, StatusFailed, StatusSkipped} {
		if s == fs {
			return true
		}
	}
	return false
}

// Successful returns true if the status satisfies downstream dependencies.
func (s Status) Successful() bool {
	return s == StatusSucceeded
}
