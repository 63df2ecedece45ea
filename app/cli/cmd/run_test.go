package cmd

import (
	"testing"

	"nereid/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLocalArithmetic(t *testing.T) {
	result, order := runLocal(context.Background(), "arithmetic", nil, false)
	require.True(t, result.Succeeded())
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
	assert.Equal(t, 12, result.Tasks["d"].Value)
}

func TestRunLocalWithParams(t *testing.T) {
	result, _ := runLocal(context.Background(), "daily-report", map[string]interface{}{"day": "2026-08-31"}, false)
	require.True(t, result.Succeeded())
	assert.Equal(t, "raw/eu/2026-08-31.csv", result.Tasks["extract"].Value)
}
