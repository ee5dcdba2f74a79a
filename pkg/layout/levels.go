package layout

// assignLevels computes each module's BFS depth from the root set.
//
// Every root starts at level 0. Popping a module, each outgoing neighbor is
// relaxed to currentLevel+1 only when that candidate is strictly greater
// than its recorded level. A module downstream of multiple paths is thereby
// pushed to the depth of its deepest predecessor, so converging branches
// never render above their slowest contributor.
//
// Modules never reached stay at level 0: they belong to a disconnected
// component and are separated spatially by the component partitioner rather
// than mixed into the main flow's levels.
//
// The graph is assumed acyclic. A visit budget bounds the damage if a cycle
// slips through: relaxation simply stops once the budget is spent, yielding
// a stable (if arbitrary) layering instead of an endless loop.
func assignLevels(g *moduleGraph) map[string]int {
	levels := make(map[string]int, len(g.modules))
	queue := make([]string, 0, len(g.modules))
	for _, root := range g.roots {
		levels[root] = 0
		queue = append(queue, root)
	}

	budget := len(g.modules) * len(g.modules)
	if budget < 10000 {
		budget = 10000
	}

	for len(queue) > 0 && budget > 0 {
		budget--
		curr := queue[0]
		queue = queue[1:]

		for _, e := range g.outgoing[curr] {
			candidate := levels[curr] + 1
			if recorded, ok := levels[e.To]; !ok || candidate > recorded {
				levels[e.To] = candidate
				queue = append(queue, e.To)
			}
		}
	}

	for _, id := range g.modules {
		if _, ok := levels[id]; !ok {
			levels[id] = 0
		}
	}
	return levels
}
