package compile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// SpecError is implemented by every validation error returned by Compile.
// A flow that fails compilation produced no artifact, the caller must fix
// the spec and recompile.
type SpecError interface {
	error
	specError()
}

// IsSpecError returns true if the given error is a spec validation error.
func IsSpecError(err error) bool {
	var se SpecError
	return errors.As(err, &se)
}

// DuplicateTaskNameError is returned when two tasks of a flow share a name.
type DuplicateTaskNameError struct {
	Name string
}

func (err DuplicateTaskNameError) Error() string {
	return fmt.Sprintf("duplicate task name %q", err.Name)
}

func (DuplicateTaskNameError) specError() {}

// UnknownUpstreamError is returned when a task depends on a name that does
// not exist among the flow's tasks.
type UnknownUpstreamError struct {
	Task     string
	Upstream string
}

func (err UnknownUpstreamError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", err.Task, err.Upstream)
}

func (UnknownUpstreamError) specError() {}

// CycleError is returned when the dependency graph contains a cycle.
// Path holds one concrete cycle, first and last element being the same task.
type CycleError struct {
	Path []string
}

func (err CycleError) Error() string {
	return fmt.Sprintf("cycle detected in task dependencies: %s", strings.Join(err.Path, " -> "))
}

func (CycleError) specError() {}
