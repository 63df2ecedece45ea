package api

import (
	"context"
	"sort"
	"time"
)

const (
	// DefaultAssetFormat is the format used by an AssetDecl when none is set.
	DefaultAssetFormat = "parquet"
)

// TaskFn is the function executed for a task.
// It receives the resolved inputs and returns the task value, or an error.
type TaskFn func(ctx context.Context, in Inputs) (interface{}, error)

// Inputs carries everything a task function receives when invoked.
// Upstream results are injected under their task name, this is the binding
// convention for dependencies: a task depending on "extract" reads
// in.Upstream["extract"].
type Inputs struct {
	// Params is the effective parameter map, merged with precedence
	// runtime > flow > task and filtered by the task's Accepts list.
	Params map[string]interface{}

	// Upstream maps upstream task names to their result values.
	Upstream map[string]interface{}
}

// AssetDecl declares that a task produces a durable, named artifact.
// The identifier is meaningful to the caller, the core does not check it
// for uniqueness.
type AssetDecl struct {
	ID           string `json:"id"`
	PartitionKey string `json:"partitionKey,omitempty"`
	Format       string `json:"format,omitempty"`
	PathTemplate string `json:"pathTemplate,omitempty"`
}

// TaskSpec is the specification of a single task within a flow.
type TaskSpec struct {
	// Name identifies the task, unique within its flow.
	Name string `json:"name"`

	// Fn is the function executed for this task.
	Fn TaskFn `json:"-"`

	// Upstream lists the names of the tasks this task depends on.
	Upstream []string `json:"upstream,omitempty"`

	// Params are static parameter overrides for this task.
	// They have the lowest precedence when parameters are resolved.
	Params map[string]interface{} `json:"params,omitempty"`

	// Retries is the number of additional attempts after a failed one.
	// Retries=0 means a single attempt.
	Retries int `json:"retries"`

	// RetryDelay is the delay between two attempts.
	RetryDelay time.Duration `json:"retryDelay"`

	// Accepts declares the parameter names the task function takes.
	// Keys absent from this list are dropped silently when resolving
	// parameters. A nil list means every merged key is passed through.
	Accepts []string `json:"accepts,omitempty"`

	// Produces declares the asset written by this task, if any.
	Produces *AssetDecl `json:"produces,omitempty"`
}

// FlowSpec is the specification of a flow: a named set of tasks connected
// by upstream dependencies.
type FlowSpec struct {
	Name string `json:"name"`

	// ScheduleCron is an opaque schedule expression. The core does not
	// interpret it, it is carried for external schedulers.
	ScheduleCron string `json:"scheduleCron,omitempty"`

	// Params are flow-level static parameters, overriding task params and
	// overridden by runtime params.
	Params map[string]interface{} `json:"params,omitempty"`

	// Tasks in declaration order. Declaration order is the tie-break rule
	// used when computing the execution order.
	Tasks []TaskSpec `json:"tasks"`
}

// Edge is a directed dependency edge, To depends on From.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Edges returns the dependency edges of the flow, sorted lexicographically
// for deterministic rendering.
func (f FlowSpec) Edges() []Edge {
	var edges []Edge
	for _, t := range f.Tasks {
		for _, up := range t.Upstream {
			edges = append(edges, Edge{From: up, To: t.Name})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}
