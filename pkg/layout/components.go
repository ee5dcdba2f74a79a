package layout

// assignComponents groups modules into undirected connected components.
//
// Component indices are assigned in input order of each component's first
// module, so the result is deterministic for a given snapshot. The indices
// only feed the positioner's horizontal band offset: unrelated sub-flows
// must not overlap horizontally.
func assignComponents(g *moduleGraph) map[string]int {
	adjacent := make(map[string][]string, len(g.modules))
	for _, e := range g.edges {
		adjacent[e.From] = append(adjacent[e.From], e.To)
		adjacent[e.To] = append(adjacent[e.To], e.From)
	}

	comps := make(map[string]int, len(g.modules))
	next := 0
	for _, start := range g.modules {
		if _, seen := comps[start]; seen {
			continue
		}
		comps[start] = next
		queue := []string{start}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, nbr := range adjacent[curr] {
				if _, seen := comps[nbr]; !seen {
					comps[nbr] = next
					queue = append(queue, nbr)
				}
			}
		}
		next++
	}
	return comps
}
