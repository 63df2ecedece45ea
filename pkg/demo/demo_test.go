package demo

import (
	gocontext "context"
	"testing"

	"nereid/pkg/api"
	"nereid/pkg/compile"
	"nereid/pkg/execute"
	"nereid/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	flow, err := compile.Compile(Arithmetic())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, flow.Order())

	result, err := execute.New().Execute(gocontext.Background(), flow, nil)
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	assert.Equal(t, 2, result.Tasks["a"].Value)
	assert.Equal(t, 5, result.Tasks["b"].Value)
	assert.Equal(t, 7, result.Tasks["c"].Value)
	assert.Equal(t, 12, result.Tasks["d"].Value)
}

func TestDailyReport(t *testing.T) {
	flow, err := compile.Compile(DailyReport())
	require.NoError(t, err)

	result, err := execute.New().Execute(gocontext.Background(), flow, map[string]interface{}{"day": "2026-08-31"})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	assert.Equal(t, "raw/eu/2026-08-31.csv", result.Tasks["extract"].Value)
	assert.Equal(t, "reports/2026-08-31/report.parquet", result.Tasks["publish"].Value)

	publish, exists := flow.Task("publish")
	require.True(t, exists)
	require.NotNil(t, publish.Produces)
	assert.Equal(t, "daily-report", publish.Produces.ID)
	assert.Equal(t, api.DefaultAssetFormat, publish.Produces.Format)
}

func TestRegistry(t *testing.T) {
	reg := Registry()
	names, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"arithmetic", "daily-report"}, names)

	spec, err := reg.Get(context.Background(), "Arithmetic")
	require.NoError(t, err)
	assert.Equal(t, "arithmetic", spec.Name)
}
