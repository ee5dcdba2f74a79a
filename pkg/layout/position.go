package layout

import "github.com/storyflow/storyflow/pkg/flow"

// positioner converts (level, order, component) into concrete coordinates
// and resolves bounding-box overlaps. Candidates are processed in a fixed
// (level, order-index) sequence so the greedy downward push stays
// deterministic.
type positioner struct {
	opts   Options
	sizes  map[string]flow.Size
	placed []rect
	pos    map[string]flow.Position

	// saturated collects modules whose collision retry budget ran out, in
	// placement order.
	saturated []string
}

func newPositioner(opts Options, sizes map[string]flow.Size, obstacles []rect) *positioner {
	return &positioner{
		opts:   opts,
		sizes:  sizes,
		placed: obstacles,
		pos:    make(map[string]flow.Position),
	}
}

// run places every module in level/order sequence and returns the final
// positions.
func (p *positioner) run(g *moduleGraph, levels, comps map[string]int, ordered [][]string) map[string]flow.Position {
	for lvl, members := range ordered {
		for idx, id := range members {
			candidate := p.candidateFor(g, id, lvl, idx, comps[id])
			p.place(id, candidate)
		}
	}
	return p.pos
}

// candidateFor computes the pre-collision position for one module.
//
// The default is the level/order grid slot, offset into the module's
// component band. Incoming edges whose source is already placed can
// override it: the first such edge carrying an explicit anchor pair applies
// the anchor rule table; a lone anchor never qualifies. When no anchored
// edge exists, the first placed slot-originated edge puts the module in a
// column beside its branching parent, offset by the slot index.
func (p *positioner) candidateFor(g *moduleGraph, id string, lvl, orderIdx, comp int) flow.Position {
	candidate := flow.Position{
		X: (float64(lvl)+float64(comp)*p.opts.ClusterMultiplier)*p.opts.XSpacing + p.opts.OffsetX,
		Y: float64(orderIdx)*p.opts.YSpacing + p.opts.OffsetY,
	}

	var slotEdge *moduleEdge
	for i, e := range g.incoming[id] {
		src, placed := p.pos[e.From]
		if !placed {
			continue
		}
		if e.SourceAnchor != flow.AnchorNone && e.TargetAnchor != flow.AnchorNone {
			return p.anchorPosition(src, p.sizes[e.From], p.sizes[id], e.SourceAnchor, e.TargetAnchor)
		}
		if slotEdge == nil && e.SlotIndex >= 0 {
			slotEdge = &g.incoming[id][i]
		}
	}
	if slotEdge != nil {
		src := p.pos[slotEdge.From]
		return flow.Position{
			X: src.X + p.sizes[slotEdge.From].Width + p.opts.XSpacing,
			Y: src.Y + float64(slotEdge.SlotIndex)*p.opts.YSpacing,
		}
	}
	return candidate
}

// anchorPosition applies the anchor-pair rule table: the target sits one
// full spacing unit away from the source on each axis the pair names.
// Straight pairs (bottom→top, right→left, ...) move on one axis; diagonal
// pairs move on both.
func (p *positioner) anchorPosition(src flow.Position, srcSize, tgtSize flow.Size, sa, ta flow.Anchor) flow.Position {
	dx, dy := anchorOffsets(sa, ta)

	out := src
	switch dx {
	case 1:
		out.X = src.X + srcSize.Width + p.opts.XSpacing
	case -1:
		out.X = src.X - p.opts.XSpacing - tgtSize.Width
	}
	switch dy {
	case 1:
		out.Y = src.Y + srcSize.Height + p.opts.YSpacing
	case -1:
		out.Y = src.Y - p.opts.YSpacing - tgtSize.Height
	}
	return out
}

// anchorOffsets maps an anchor pair to unit offsets for the target relative
// to the source. The source anchor wins on its own axis; the target anchor
// fills in the other axis, which keeps diagonal pairs pointing away from the
// source side the connection leaves from and minimizes the edge bend.
func anchorOffsets(sa, ta flow.Anchor) (dx, dy int) {
	switch sa {
	case flow.AnchorBottom:
		dy = 1
	case flow.AnchorTop:
		dy = -1
	case flow.AnchorRight:
		dx = 1
	case flow.AnchorLeft:
		dx = -1
	}
	if dy == 0 {
		switch ta {
		case flow.AnchorTop:
			dy = 1
		case flow.AnchorBottom:
			dy = -1
		}
	}
	if dx == 0 {
		switch ta {
		case flow.AnchorLeft:
			dx = 1
		case flow.AnchorRight:
			dx = -1
		}
	}
	return dx, dy
}

// place resolves collisions for the candidate and records the result. An
// overlapping candidate is pushed downward past the blocking box plus the
// collision margin and retested, up to the retry budget; after that the
// last candidate is accepted regardless of outcome and the module is
// recorded as saturated.
func (p *positioner) place(id string, candidate flow.Position) {
	size := p.sizes[id]
	for attempt := 0; ; attempt++ {
		box := boundsOf(candidate, size, p.opts.CollisionPadding)
		blocker, collided := p.firstOverlap(box)
		if !collided {
			break
		}
		if attempt >= p.opts.MaxCollisionRetries {
			p.saturated = append(p.saturated, id)
			break
		}
		candidate.Y = blocker.bottom + p.opts.CollisionMargin
	}
	p.pos[id] = candidate
	p.placed = append(p.placed, boundsOf(candidate, size, p.opts.CollisionPadding))
}

func (p *positioner) firstOverlap(box rect) (rect, bool) {
	for _, placed := range p.placed {
		if box.overlaps(placed) {
			return placed, true
		}
	}
	return rect{}, false
}
