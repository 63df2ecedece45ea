package compile

import (
	gocontext "context"
	"testing"

	"nereid/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx gocontext.Context, in api.Inputs) (interface{}, error) {
	return nil, nil
}

func task(name string, upstream ...string) api.TaskSpec {
	return api.TaskSpec{Name: name, Fn: noop, Upstream: upstream}
}

func TestCompileDiamond(t *testing.T) {
	flow, err := Compile(api.FlowSpec{
		Name:  "diamond",
		Tasks: []api.TaskSpec{task("a"), task("b", "a"), task("c", "a"), task("d", "b", "c")},
	})
	require.NoError(t, err)
	assert.Equal(t, "diamond", flow.Name())
	assert.Equal(t, 4, flow.Size())
	assert.Equal(t, []string{"a", "b", "c", "d"}, flow.Order())
	assert.Equal(t, [][]string{{"a"}, {"b", "c"}, {"d"}}, flow.Levels())
}

func TestCompileDeclarationOrderTieBreak(t *testing.T) {
	// b and c are both eligible once a is done, c is declared first.
	flow, err := Compile(api.FlowSpec{
		Name:  "ties",
		Tasks: []api.TaskSpec{task("c", "a"), task("a"), task("b", "a")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, flow.Order())

	// Independent roots run in declaration order too.
	flow, err = Compile(api.FlowSpec{
		Name:  "roots",
		Tasks: []api.TaskSpec{task("z"), task("m"), task("a")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "m", "a"}, flow.Order())
}

func TestCompileOrderProperty(t *testing.T) {
	flow, err := Compile(api.FlowSpec{
		Name: "wide",
		Tasks: []api.TaskSpec{
			task("e", "c", "d"),
			task("d", "a"),
			task("c", "b"),
			task("b"),
			task("a", "b"),
		},
	})
	require.NoError(t, err)

	pos := make(map[string]int)
	for i, name := range flow.Order() {
		pos[name] = i
	}
	for _, name := range flow.Order() {
		spec, exists := flow.Task(name)
		require.True(t, exists)
		for _, up := range spec.Upstream {
			assert.Less(t, pos[up], pos[name], "%s must come after %s", name, up)
		}
	}
}

func TestCompileDuplicateName(t *testing.T) {
	_, err := Compile(api.FlowSpec{
		Name:  "dup",
		Tasks: []api.TaskSpec{task("a"), task("b"), task("a")},
	})
	require.Error(t, err)
	assert.True(t, IsSpecError(err))
	assert.Equal(t, DuplicateTaskNameError{Name: "a"}, err)
}

func TestCompileUnknownUpstream(t *testing.T) {
	_, err := Compile(api.FlowSpec{
		Name:  "unknown",
		Tasks: []api.TaskSpec{task("a"), task("b", "a", "ghost")},
	})
	require.Error(t, err)
	assert.True(t, IsSpecError(err))
	assert.Equal(t, UnknownUpstreamError{Task: "b", Upstream: "ghost"}, err)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestCompileDuplicateReportedBeforeUnknown(t *testing.T) {
	// Both defects are present, validation order makes the message stable.
	_, err := Compile(api.FlowSpec{
		Name:  "both",
		Tasks: []api.TaskSpec{task("a", "ghost"), task("a")},
	})
	assert.Equal(t, DuplicateTaskNameError{Name: "a"}, err)
}

func TestCompileCycle(t *testing.T) {
	_, err := Compile(api.FlowSpec{
		Name:  "cyclic",
		Tasks: []api.TaskSpec{task("a", "c"), task("b", "a"), task("c", "b")},
	})
	require.Error(t, err)
	assert.True(t, IsSpecError(err))
	cerr, isCycle := err.(CycleError)
	require.True(t, isCycle)
	require.NotEmpty(t, cerr.Path)
	assert.Equal(t, cerr.Path[0], cerr.Path[len(cerr.Path)-1], "path starts and ends on the same task")
	assert.Len(t, cerr.Path, 4)
}

func TestCompileSelfDependency(t *testing.T) {
	_, err := Compile(api.FlowSpec{
		Name:  "self",
		Tasks: []api.TaskSpec{task("a", "a")},
	})
	require.Error(t, err)
	assert.Equal(t, CycleError{Path: []string{"a", "a"}}, err)
}

func TestCompileEmptyFlow(t *testing.T) {
	flow, err := Compile(api.FlowSpec{Name: "empty"})
	require.NoError(t, err)
	assert.Equal(t, 0, flow.Size())
	assert.Empty(t, flow.Order())
	assert.Empty(t, flow.Levels())
}

func TestCompileDetachedFromInput(t *testing.T) {
	spec := api.FlowSpec{
		Name:   "frozen",
		Params: map[string]interface{}{"k": "v"},
		Tasks:  []api.TaskSpec{task("a"), task("b", "a")},
	}
	flow, err := Compile(spec)
	require.NoError(t, err)

	// Mutate the input after compilation.
	spec.Tasks[0].Name = "mutated"
	spec.Tasks[1].Upstream[0] = "mutated"
	spec.Params["k"] = "changed"

	assert.Equal(t, []string{"a", "b"}, flow.Order())
	b, _ := flow.Task("b")
	assert.Equal(t, []string{"a"}, b.Upstream)
	assert.Equal(t, "v", flow.Params()["k"])
}

func TestCompileOrderCopyIsDetached(t *testing.T) {
	flow, err := Compile(api.FlowSpec{
		Name:  "copy",
		Tasks: []api.TaskSpec{task("a"), task("b", "a")},
	})
	require.NoError(t, err)

	order := flow.Order()
	order[0] = "tampered"
	assert.Equal(t, []string{"a", "b"}, flow.Order())
}

func TestCompileDefaultsAssetFormat(t *testing.T) {
	flow, err := Compile(api.FlowSpec{
		Name: "assets",
		Tasks: []api.TaskSpec{
			{Name: "a", Fn: noop, Produces: &api.AssetDecl{ID: "out"}},
			{Name: "b", Fn: noop, Produces: &api.AssetDecl{ID: "other", Format: "csv"}},
		},
	})
	require.NoError(t, err)
	a, _ := flow.Task("a")
	assert.Equal(t, api.DefaultAssetFormat, a.Produces.Format)
	b, _ := flow.Task("b")
	assert.Equal(t, "csv", b.Produces.Format)
}

func TestCompileEdges(t *testing.T) {
	flow, err := Compile(api.FlowSpec{
		Name:  "edges",
		Tasks: []api.TaskSpec{task("d", "b", "c"), task("b", "a"), task("c", "a"), task("a")},
	})
	require.NoError(t, err)
	assert.Equal(t, []api.Edge{
		{From: "a", To: "b"},
		{From: "a", To: "c"},
		{From: "b", To: "d"},
		{From: "c", To: "d"},
	}, flow.Edges())
}
