package execute

import (
	"testing"

	"nereid/pkg/api"

	"github.com/stretchr/testify/assert"
)

func TestMergeParamsPrecedence(t *testing.T) {
	task := api.TaskSpec{Params: map[string]interface{}{"a": "task", "b": "task", "c": "task"}}
	flow := map[string]interface{}{"b": "flow", "c": "flow"}
	runtime := map[string]interface{}{"c": "runtime"}

	merged := mergeParams(task, flow, runtime)
	assert.Equal(t, map[string]interface{}{"a": "task", "b": "flow", "c": "runtime"}, merged)
}

func TestMergeParamsNilLayers(t *testing.T) {
	merged := mergeParams(api.TaskSpec{}, nil, nil)
	assert.Empty(t, merged)

	merged = mergeParams(api.TaskSpec{}, nil, map[string]interface{}{"k": 1})
	assert.Equal(t, map[string]interface{}{"k": 1}, merged)
}

func TestFilterParams(t *testing.T) {
	merged := map[string]interface{}{"a": 1, "b": 2}

	assert.Equal(t, merged, filterParams(merged, nil), "nil accepts passes everything")
	assert.Equal(t, map[string]interface{}{"a": 1}, filterParams(merged, []string{"a", "missing"}))
	assert.Empty(t, filterParams(merged, []string{}), "empty accepts passes nothing")
}
