package incremental

// depGraph maps a file to the files that depend on it. Edges arrive from
// import scanning and external tooling, so cycles are possible and every
// traversal is depth-bounded.
type depGraph struct {
	dependents map[string][]string
}

func newDepGraph() *depGraph {
	return &depGraph{dependents: make(map[string][]string)}
}

// addEdge records dependent as depending on path. Duplicate edges are kept
// out to stop the fan-out from growing unboundedly on repeated runs.
func (g *depGraph) addEdge(path, dependent string) {
	for _, d := range g.dependents[path] {
		if d == dependent {
			return
		}
	}

	g.dependents[path] = append(g.dependents[path], dependent)
}

// reachable returns start plus every transitive dependent within maxDepth
// hops, in breadth-first order. The visited set stops cycles; the depth
// bound stops degenerate chains.
func (g *depGraph) reachable(start string, maxDepth int) []string {
	visited := map[string]bool{start: true}
	order := []string{start}
	frontier := []string{start}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string

		for _, p := range frontier {
			for _, dep := range g.dependents[p] {
				if visited[dep] {
					continue
				}

				visited[dep] = true
				order = append(order, dep)
				next = append(next, dep)
			}
		}

		frontier = next
	}

	return order
}
