package compile

import (
	"nereid/pkg/api"
)

// graph is an arena representation of the dependency graph: tasks are kept
// in declaration order and edges are resolved to indices once, so no live
// object cycles exist whatever the spec looks like.
type graph struct {
	names    []string
	upstream [][]int // task -> indices of its dependencies
	children [][]int // task -> indices of its dependents
}

// buildGraph resolves name-based edges to indices.
// Task names must already be validated (unique, upstreams known).
func buildGraph(tasks []api.TaskSpec) *graph {
	n := len(tasks)
	index := make(map[string]int, n)
	for i, t := range tasks {
		index[t.Name] = i
	}

	g := &graph{
		names:    make([]string, n),
		upstream: make([][]int, n),
		children: make([][]int, n),
	}
	for i, t := range tasks {
		g.names[i] = t.Name
		for _, up := range t.Upstream {
			u := index[up]
			g.upstream[i] = append(g.upstream[i], u)
			g.children[u] = append(g.children[u], i)
		}
	}
	return g
}

// topoOrder computes a topological order of the graph.
// Among tasks simultaneously eligible, the lowest declaration index is
// taken first, which makes the order deterministic and reproducible.
// ok is false when a cycle prevents a complete order.
func (g *graph) topoOrder() (order []int, ok bool) {
	n := len(g.names)
	indeg := make([]int, n)
	for i, ups := range g.upstream {
		indeg[i] = len(ups)
	}

	done := make([]bool, n)
	order = make([]int, 0, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indeg[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			// Remaining tasks all wait on each other.
			return order, false
		}
		done[next] = true
		order = append(order, next)
		for _, c := range g.children[next] {
			indeg[c]--
		}
	}
	return order, true
}

// findCycle returns one concrete cycle as a task name path, first and last
// element being the same task. It must only be called when topoOrder
// reported a cycle.
func (g *graph) findCycle() []string {
	const (
		white = iota // unvisited
		grey         // on the current DFS path
		black        // fully explored
	)
	n := len(g.names)
	color := make([]int, n)
	var path []int

	var dfs func(i int) []string
	dfs = func(i int) []string {
		color[i] = grey
		path = append(path, i)
		for _, c := range g.children[i] {
			switch color[c] {
			case grey:
				// Found it: slice the path from the first occurrence of c.
				var cycle []string
				for k, p := range path {
					if p == c {
						for _, idx := range path[k:] {
							cycle = append(cycle, g.names[idx])
						}
						break
					}
				}
				return append(cycle, g.names[c])
			case white:
				if cycle := dfs(c); cycle != nil {
					return cycle
				}
			}
		}
		color[i] = black
		path = path[:len(path)-1]
		return nil
	}

	for i := 0; i < n; i++ {
		if color[i] == white {
			if cycle := dfs(i); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// levels groups tasks by dependency depth: a task's level is one past the
// deepest of its dependencies. Tasks within a level never depend on each
// other and may run concurrently.
func (g *graph) levels(order []int) [][]int {
	if len(g.names) == 0 {
		return nil
	}
	depth := make([]int, len(g.names))
	max := 0
	for _, i := range order {
		for _, u := range g.upstream[i] {
			if depth[u]+1 > depth[i] {
				depth[i] = depth[u] + 1
			}
		}
		if depth[i] > max {
			max = depth[i]
		}
	}

	levels := make([][]int, max+1)
	// Iterate by declaration index so each level keeps declaration order.
	for i := range g.names {
		levels[depth[i]] = append(levels[depth[i]], i)
	}
	return levels
}
