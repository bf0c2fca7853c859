package protocol

// DependencyGraph returns a map from step name to its dependency list
// (gate step plus mapping sources, deduplicated). Every declared step has
// an entry, independent steps map to an empty list.
func (p *Protocol) DependencyGraph() map[string][]string {
	graph := make(map[string][]string, len(p.order))
	for _, name := range p.order {
		deps := p.steps[name].Dependencies()
		if deps == nil {
			deps = []string{}
		}
		graph[name] = deps
	}
	return graph
}

// TopologicalSort returns a linear order in which every dependency precedes
// its dependents. It is a depth-first post-order traversal visiting each
// step once; ties follow the protocol's declaration order, so the result is
// deterministic. Dependencies naming undeclared steps are skipped; run
// Validate first to surface those.
func (p *Protocol) TopologicalSort() []string {
	graph := p.DependencyGraph()
	visited := make(map[string]bool, len(p.order))
	order := make([]string, 0, len(p.order))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, dep := range graph[name] {
			if _, ok := p.steps[dep]; ok {
				visit(dep)
			}
		}
		order = append(order, name)
	}

	for _, name := range p.order {
		visit(name)
	}
	return order
}
