package registry

import (
	"sort"
	"strings"

	"nereid/pkg/api"
	"nereid/pkg/util/context"
)

// Registry maps flow names to their specifications. It is explicit,
// caller-constructed state: the core never discovers flows by itself.
type Registry interface {
	// Get returns the flow registered under the given name.
	// Lookup is case-insensitive. Misses return a NotFoundError.
	Get(ctx context.Context, name string) (api.FlowSpec, error)

	// List returns the registered flow names, sorted.
	List(ctx context.Context) ([]string, error)
}

// NewInMemory returns a Registry backed by the given map.
// Keys are normalized to lowercase.
func NewInMemory(flows map[string]api.FlowSpec) Registry {
	r := inMemory{
		flows: make(map[string]api.FlowSpec, len(flows)),
	}
	for name, spec := range flows {
		r.flows[normalize(name)] = spec
	}
	return r
}

type inMemory struct {
	flows map[string]api.FlowSpec
}

func (r inMemory) Get(ctx context.Context, name string) (api.FlowSpec, error) {
	spec, exists := r.flows[normalize(name)]
	if !exists {
		return api.FlowSpec{}, NotFoundError(name)
	}
	return spec, nil
}

func (r inMemory) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(r.flows))
	for name := range r.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
