package layout

import (
	"slices"

	"github.com/storyflow/storyflow/pkg/flow"
)

// Report carries per-pass diagnostics that do not affect the layout result.
type Report struct {
	// Saturated lists modules whose collision retry budget ran out, in
	// placement order. Their final position may still overlap a neighbor.
	Saturated []string
}

// Build runs the full layout pipeline over a node/edge snapshot and returns
// a new node slice with positions (and, for branching parents, sizes)
// replaced. The input slices are never mutated; edges are only read.
//
// A zero-module snapshot is legal and returns the nodes unchanged. No error
// is returned: malformed structure (dangling edges, orphan slots) degrades
// to best-effort placement instead of failing.
func Build(nodes []flow.Node, edges []flow.Edge, opts Options) []flow.Node {
	result, _ := BuildWithReport(nodes, edges, opts)
	return result
}

// BuildWithReport is Build plus the pass diagnostics.
func BuildWithReport(nodes []flow.Node, edges []flow.Edge, opts Options) ([]flow.Node, Report) {
	result := slices.Clone(nodes)
	index := make(map[string]int, len(result))
	byID := make(map[string]flow.Node, len(result))
	for i, n := range result {
		index[n.ID] = i
		byID[n.ID] = n
	}

	scope := resolveScope(byID, opts.Selection)
	g := buildModuleGraph(nodes, edges, opts.RootHint, scope)
	if len(g.modules) == 0 {
		return result, Report{}
	}

	anchorID := resolveAnchor(g, byID, opts.Selection, scope)
	before := byID[anchorID].Position

	sizes := make(map[string]flow.Size, len(g.modules))
	for _, id := range g.modules {
		sizes[id] = byID[id].Size
	}

	comps := assignComponents(g)
	levels := assignLevels(g)
	ordered := orderLevels(g, levels)

	pos := newPositioner(opts, sizes, collectObstacles(nodes, byID, scope, opts.CollisionPadding))
	positions := pos.run(g, levels, comps, ordered)
	report := Report{Saturated: pos.saturated}

	moved := make(map[string]bool)
	for id, p := range positions {
		i := index[id]
		if result[i].Position != p {
			moved[id] = true
		}
		result[i].Position = p
	}

	// Re-stack every in-scope branching group on top of the fresh module
	// positions. Slot geometry is derived, never carried over.
	for _, id := range g.modules {
		slots := slotsOf(nodes, byID, id)
		if len(slots) == 0 {
			continue
		}
		geo := BranchingGroup(result[index[id]].Position, slots, opts)
		parent := &result[index[id]]
		if parent.Size != geo.ParentSize {
			parent.Size = geo.ParentSize
		}
		for _, s := range slots {
			i := index[s.ID]
			p := geo.SlotPos[s.ID]
			if result[i].Position != p {
				moved[s.ID] = true
			}
			result[i].Position = p
			result[i].Size = geo.SlotSize
		}
	}

	// Anchor shift: keep the anchor module where the user last saw it.
	after := result[index[anchorID]].Position
	delta := flow.Position{X: before.X - after.X, Y: before.Y - after.Y}
	if delta.X == 0 && delta.Y == 0 {
		return result, report
	}

	shift := func(i int) {
		result[i].Position.X += delta.X
		result[i].Position.Y += delta.Y
	}
	if scope == nil {
		for _, id := range g.modules {
			shift(index[id])
			for _, s := range slotsOf(nodes, byID, id) {
				shift(index[s.ID])
			}
		}
	} else {
		for id := range moved {
			shift(index[id])
		}
	}
	return result, report
}

// Flow is a convenience wrapper over Build for whole flow documents. The
// returned flow shares the input's edges (they are never rewritten) and
// carries the repositioned nodes.
func Flow(f *flow.Flow, opts Options) *flow.Flow {
	laid, _ := FlowWithReport(f, opts)
	return laid
}

// FlowWithReport is Flow plus the pass diagnostics.
func FlowWithReport(f *flow.Flow, opts Options) (*flow.Flow, Report) {
	nodes, report := BuildWithReport(f.Nodes, f.Edges, opts)
	return &flow.Flow{
		ID:    f.ID,
		Name:  f.Name,
		Nodes: nodes,
		Edges: f.Edges,
	}, report
}

// resolveScope maps the caller's selection onto the module id set. Slot ids
// resolve to their parents; unknown ids are ignored. Returns nil (whole
// graph) when the selection is empty or resolves to nothing.
func resolveScope(byID map[string]flow.Node, selection []string) map[string]bool {
	if len(selection) == 0 {
		return nil
	}
	scope := make(map[string]bool)
	for _, id := range selection {
		n, ok := byID[id]
		if !ok {
			continue
		}
		if n.IsSlot() {
			if parent, ok := byID[n.ParentID]; ok && !parent.IsSlot() {
				n = parent
			}
		}
		scope[n.ID] = true
	}
	if len(scope) == 0 {
		return nil
	}
	return scope
}

// resolveAnchor picks the module whose on-screen location is preserved
// across the pass: the resolved root for whole-graph layout; for a scoped
// layout, the single selected module, or the first non-slot module in the
// caller's selection order.
func resolveAnchor(g *moduleGraph, byID map[string]flow.Node, selection []string, scope map[string]bool) string {
	if scope == nil {
		if len(g.roots) > 0 {
			return g.roots[0]
		}
		return g.modules[0]
	}

	if len(selection) == 1 {
		if n, ok := byID[selection[0]]; ok {
			if n.IsSlot() {
				if parent, ok := byID[n.ParentID]; ok && !parent.IsSlot() {
					return parent.ID
				}
			}
			if g.inSet[n.ID] {
				return n.ID
			}
		}
	}
	for _, id := range selection {
		if n, ok := byID[id]; ok && !n.IsSlot() && g.inSet[n.ID] {
			return n.ID
		}
	}
	return g.modules[0]
}

// collectObstacles returns the padded bounding boxes of everything a scoped
// pass must not move: out-of-scope modules stay exactly where they are but
// still repel repositioned candidates. Whole-graph passes have no
// pre-existing obstacles.
func collectObstacles(nodes []flow.Node, byID map[string]flow.Node, scope map[string]bool, pad float64) []rect {
	if scope == nil {
		return nil
	}
	var obstacles []rect
	for _, n := range nodes {
		if n.IsSlot() {
			if parent, ok := byID[n.ParentID]; ok && !parent.IsSlot() {
				continue // contained in the parent's box
			}
		}
		if scope[n.ID] {
			continue
		}
		obstacles = append(obstacles, boundsOf(n.Position, n.Size, pad))
	}
	return obstacles
}

// slotsOf returns the proper output slots of a module from the input
// snapshot, sorted by slot index. Orphan slots (unresolvable parent) are
// standalone modules and never show up here.
func slotsOf(nodes []flow.Node, byID map[string]flow.Node, parentID string) []flow.Node {
	parent, ok := byID[parentID]
	if !ok || parent.IsSlot() {
		return nil
	}
	var slots []flow.Node
	for _, n := range nodes {
		if n.IsSlot() && n.ParentID == parentID {
			slots = append(slots, n)
		}
	}
	slices.SortFunc(slots, func(a, b flow.Node) int { return a.SlotIndex - b.SlotIndex })
	return slots
}
