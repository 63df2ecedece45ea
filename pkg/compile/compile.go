package compile

import (
	"nereid/pkg/api"
)

// CompiledFlow is the validated, immutable artifact produced by Compile.
// It holds a normalized copy of the flow spec plus the frozen execution
// order, and can safely be shared across concurrent executions.
type CompiledFlow struct {
	spec   api.FlowSpec
	index  map[string]int
	order  []string
	levels [][]string
}

// Compile validates the given flow specification and freezes its execution
// order. It fails with a SpecError and produces no artifact when the spec
// is invalid. Validation is performed in a fixed order so error messages
// are deterministic: duplicate task names first, then unknown upstream
// references, then cycles.
func Compile(spec api.FlowSpec) (*CompiledFlow, error) {
	index := make(map[string]int, len(spec.Tasks))
	for i, t := range spec.Tasks {
		if _, exists := index[t.Name]; exists {
			return nil, DuplicateTaskNameError{Name: t.Name}
		}
		index[t.Name] = i
	}

	for _, t := range spec.Tasks {
		for _, up := range t.Upstream {
			if _, exists := index[up]; !exists {
				return nil, UnknownUpstreamError{Task: t.Name, Upstream: up}
			}
		}
	}

	g := buildGraph(spec.Tasks)
	idxOrder, ok := g.topoOrder()
	if !ok {
		return nil, CycleError{Path: g.findCycle()}
	}

	order := make([]string, len(idxOrder))
	for i, idx := range idxOrder {
		order[i] = g.names[idx]
	}
	var levels [][]string
	for _, level := range g.levels(idxOrder) {
		names := make([]string, len(level))
		for i, idx := range level {
			names[i] = g.names[idx]
		}
		levels = append(levels, names)
	}

	return &CompiledFlow{
		spec:   copySpec(spec),
		index:  index,
		order:  order,
		levels: levels,
	}, nil
}

// Name returns the flow name.
func (f *CompiledFlow) Name() string {
	return f.spec.Name
}

// Size returns the number of tasks in the flow.
func (f *CompiledFlow) Size() int {
	return len(f.spec.Tasks)
}

// Order returns the frozen topological order of task names. Every task
// appears after all of its upstream tasks.
func (f *CompiledFlow) Order() []string {
	order := make([]string, len(f.order))
	copy(order, f.order)
	return order
}

// Levels returns the tasks grouped by dependency depth. Tasks within a
// level are mutually independent.
func (f *CompiledFlow) Levels() [][]string {
	levels := make([][]string, len(f.levels))
	for i, level := range f.levels {
		levels[i] = make([]string, len(level))
		copy(levels[i], level)
	}
	return levels
}

// Task returns the spec of the given task.
func (f *CompiledFlow) Task(name string) (api.TaskSpec, bool) {
	i, exists := f.index[name]
	if !exists {
		return api.TaskSpec{}, false
	}
	return f.spec.Tasks[i], true
}

// Params returns the flow-level static parameters.
func (f *CompiledFlow) Params() map[string]interface{} {
	return f.spec.Params
}

// Edges returns the dependency edges of the flow, sorted for deterministic
// rendering.
func (f *CompiledFlow) Edges() []api.Edge {
	return f.spec.Edges()
}

// copySpec detaches the compiled artifact from caller-owned state: the
// compiler never retains references to its input after returning.
func copySpec(spec api.FlowSpec) api.FlowSpec {
	out := spec
	out.Params = copyParams(spec.Params)
	out.Tasks = make([]api.TaskSpec, len(spec.Tasks))
	for i, t := range spec.Tasks {
		ct := t
		ct.Params = copyParams(t.Params)
		if t.Upstream != nil {
			ct.Upstream = make([]string, len(t.Upstream))
			copy(ct.Upstream, t.Upstream)
		}
		if t.Accepts != nil {
			ct.Accepts = make([]string, len(t.Accepts))
			copy(ct.Accepts, t.Accepts)
		}
		if t.Produces != nil {
			decl := *t.Produces
			if decl.Format == "" {
				decl.Format = api.DefaultAssetFormat
			}
			ct.Produces = &decl
		}
		out.Tasks[i] = ct
	}
	return out
}

func copyParams(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		return nil
	}
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
