package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgesSorted(t *testing.T) {
	flow := FlowSpec{
		Name: "f",
		Tasks: []TaskSpec{
			{Name: "d", Upstream: []string{"c", "b"}},
			{Name: "b", Upstream: []string{"a"}},
			{Name: "c", Upstream: []string{"a"}},
			{Name: "a"},
		},
	}
	assert.Equal(t, []Edge{
		{From: "a", To: "b"},
		{From: "a", To: "c"},
		{From: "b", To: "d"},
		{From: "c", To: "d"},
	}, flow.Edges())
}

func TestEdgesEmpty(t *testing.T) {
	assert.Empty(t, FlowSpec{Name: "f", Tasks: []TaskSpec{{Name: "a"}}}.Edges())
}

func TestStatusFinished(t *testing.T) {
	assert.True(t, StatusSucceeded.Finished())
	assert.True(t, StatusFailed.Finished())
	assert.True(t, StatusSkipped.Finished())
	assert.False(t, StatusPending.Finished())
	assert.False(t, StatusRunning.Finished())
	assert.False(t, StatusRetrying.Finished())
}

func TestStatusSuccessful(t *testing.T) {
	assert.True(t, StatusSucceeded.Successful())
	assert.False(t, StatusFailed.Successful())
	assert.False(t, StatusSkipped.Successful())
}

func TestExecutionResultSucceeded(t *testing.T) {
	result := ExecutionResult{
		Flow: "f",
		Tasks: map[string]Outcome{
			"a": {Status: StatusSucceeded, Value: 1},
			"b": {Status: StatusSucceeded, Value: 2},
		},
	}
	assert.True(t, result.Succeeded())

	result.Tasks["c"] = Outcome{Status: StatusSkipped}
	assert.False(t, result.Succeeded())
}

func TestExecutionResultValues(t *testing.T) {
	result := ExecutionResult{
		Flow: "f",
		Tasks: map[string]Outcome{
			"a": {Status: StatusSucceeded, Value: 1},
			"b": {Status: StatusFailed, Cause: "boom"},
			"c": {Status: StatusSkipped, UpstreamFailed: "b"},
		},
	}
	assert.Equal(t, map[string]interface{}{"a": 1}, result.Values())
}
