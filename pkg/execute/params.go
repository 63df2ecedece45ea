package execute

import (
	"nereid/pkg/api"
	"nereid/pkg/util/maps"
)

// mergeParams builds the effective parameter map for a task by layering the
// three sources lowest to highest precedence: task static params, flow
// static params, caller-supplied runtime params. Each layer overrides
// identically named keys of lower layers, independently per key.
func mergeParams(task api.TaskSpec, flowParams, runtime map[string]interface{}) map[string]interface{} {
	return maps.Merge(task.Params, flowParams, runtime)
}

// filterParams restricts the merged map to the names the task declared it
// accepts. Unknown keys are dropped silently, callers routinely share one
// parameter set across many tasks. A nil Accepts list passes everything
// through.
func filterParams(merged map[string]interface{}, accepts []string) map[string]interface{} {
	if accepts == nil {
		return merged
	}
	filtered := make(map[string]interface{}, len(accepts))
	for _, name := range accepts {
		if v, exists := merged[name]; exists {
			filtered[name] = v
		}
	}
	return filtered
}
