package layout

import "github.com/storyflow/storyflow/pkg/flow"

// moduleEdge is a directed edge between two modules after collapsing output
// slot endpoints into their owning parents.
type moduleEdge struct {
	From, To string

	// SlotIndex is the index of the output slot the edge originated from,
	// or -1 when the source endpoint was the module itself.
	SlotIndex int

	SourceAnchor flow.Anchor
	TargetAnchor flow.Anchor
}

// moduleGraph is the module-level view of a flow snapshot: output slots are
// folded into their parents and every edge connects two distinct modules.
type moduleGraph struct {
	// modules in input order; drives every deterministic tie-break.
	modules []string
	inSet   map[string]bool

	edges    []moduleEdge
	outgoing map[string][]moduleEdge
	incoming map[string][]moduleEdge

	// roots is never empty for a non-empty module set.
	roots []string
}

// buildModuleGraph derives the module graph from the node/edge snapshot.
//
// The module set contains every non-slot node, plus any output slot whose
// parent id does not resolve to an existing module (such orphans are treated
// as ordinary standalone modules rather than faults). When scope is
// non-nil, modules outside it are excluded entirely.
//
// Edges with a dangling endpoint are silently dropped, as are edges whose
// resolved endpoints coincide (module self-loops).
func buildModuleGraph(nodes []flow.Node, edges []flow.Edge, rootHint string, scope map[string]bool) *moduleGraph {
	byID := make(map[string]flow.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	g := &moduleGraph{
		inSet:    make(map[string]bool),
		outgoing: make(map[string][]moduleEdge),
		incoming: make(map[string][]moduleEdge),
	}

	for _, n := range nodes {
		if n.IsSlot() {
			if parent, ok := byID[n.ParentID]; ok && !parent.IsSlot() {
				continue // proper slot, collapsed into its parent
			}
		}
		if scope != nil && !scope[n.ID] {
			continue
		}
		if !g.inSet[n.ID] {
			g.inSet[n.ID] = true
			g.modules = append(g.modules, n.ID)
		}
	}

	inDegree := make(map[string]int, len(g.modules))
	for _, e := range edges {
		from, slotIdx, ok := g.resolveEndpoint(byID, e.Source)
		if !ok {
			continue
		}
		to, _, ok := g.resolveEndpoint(byID, e.Target)
		if !ok || from == to {
			continue
		}
		me := moduleEdge{
			From:         from,
			To:           to,
			SlotIndex:    slotIdx,
			SourceAnchor: e.SourceAnchor,
			TargetAnchor: e.TargetAnchor,
		}
		g.edges = append(g.edges, me)
		g.outgoing[from] = append(g.outgoing[from], me)
		g.incoming[to] = append(g.incoming[to], me)
		inDegree[to]++
	}

	g.roots = resolveRoots(g, inDegree, rootHint)
	return g
}

// resolveEndpoint maps an edge endpoint to its module id. Slot endpoints are
// replaced with their parents; the slot index is reported so the layerer and
// positioner can keep a branching fan-out in slot order. Endpoints that are
// dangling or resolve outside the module set are rejected.
func (g *moduleGraph) resolveEndpoint(byID map[string]flow.Node, id string) (string, int, bool) {
	n, ok := byID[id]
	if !ok {
		return "", -1, false
	}
	slotIdx := -1
	if n.IsSlot() {
		if parent, ok := byID[n.ParentID]; ok && !parent.IsSlot() {
			slotIdx = n.SlotIndex
			n = parent
		}
	}
	if !g.inSet[n.ID] {
		return "", -1, false
	}
	return n.ID, slotIdx, true
}

// resolveRoots picks the level-0 module set: the root hint if it is a known
// in-scope module, otherwise every module without incoming edges, otherwise
// the first module in input order. The result is empty only when the module
// set is empty.
func resolveRoots(g *moduleGraph, inDegree map[string]int, rootHint string) []string {
	if rootHint != "" && g.inSet[rootHint] {
		return []string{rootHint}
	}
	var roots []string
	for _, id := range g.modules {
		if inDegree[id] == 0 {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 && len(g.modules) > 0 {
		roots = []string{g.modules[0]}
	}
	return roots
}
