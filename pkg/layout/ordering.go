package layout

import (
	"slices"
	"strings"
)

// orderLevels orders the modules within each level to reduce edge crossings.
//
// Level 0 (which also holds every unreached module) gets a deterministic
// baseline order. Each deeper level is then ordered by the barycenter
// heuristic against the already-finalized previous level, in a single
// forward pass: earlier levels are never revisited. The heuristic
// approximates the NP-hard minimum-crossing problem; leftover crossings are
// expected.
//
// The returned slice is indexed by level.
func orderLevels(g *moduleGraph, levels map[string]int) [][]string {
	maxLevel := 0
	perLevel := make(map[int][]string)
	for _, id := range g.modules {
		lvl := levels[id]
		perLevel[lvl] = append(perLevel[lvl], id)
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	ordered := make([][]string, maxLevel+1)
	for lvl := 0; lvl <= maxLevel; lvl++ {
		baseline := baselineOrder(g, levels, perLevel[lvl])
		if lvl == 0 {
			ordered[0] = baseline
			continue
		}
		ordered[lvl] = barycenterOrder(g, baseline, ordered[lvl-1])
	}
	return ordered
}

// baselineOrder produces the deterministic seed order for one level:
//
//  1. modules reached via an output slot connection, by slot index ascending,
//  2. modules grouped by shared immediate predecessor so each predecessor's
//     fan-out stays contiguous, groups by (predecessor level, predecessor id),
//  3. everything else, stable-sorted by id.
func baselineOrder(g *moduleGraph, levels map[string]int, members []string) []string {
	var slotReached, predGrouped, rest []string
	for _, id := range members {
		switch {
		case minSlotIndex(g, id) >= 0:
			slotReached = append(slotReached, id)
		case firstPredecessor(g, id) != "":
			predGrouped = append(predGrouped, id)
		default:
			rest = append(rest, id)
		}
	}

	slices.SortStableFunc(slotReached, func(a, b string) int {
		return minSlotIndex(g, a) - minSlotIndex(g, b)
	})

	slices.SortStableFunc(predGrouped, func(a, b string) int {
		pa, pb := firstPredecessor(g, a), firstPredecessor(g, b)
		if pa != pb {
			if d := levels[pa] - levels[pb]; d != 0 {
				return d
			}
			return strings.Compare(pa, pb)
		}
		return 0
	})

	slices.SortStableFunc(rest, strings.Compare)

	out := make([]string, 0, len(members))
	out = append(out, slotReached...)
	out = append(out, predGrouped...)
	out = append(out, rest...)
	return out
}

// barycenterOrder sorts one level by the mean position of each module's
// predecessors in the already-ordered previous level. Modules with no
// predecessor there keep baselineIndex+0.5, which leaves their relative
// order stable; ties fall back to the baseline index via the stable sort.
func barycenterOrder(g *moduleGraph, baseline, prevOrder []string) []string {
	prevPos := make(map[string]int, len(prevOrder))
	for i, id := range prevOrder {
		prevPos[id] = i
	}

	bary := make(map[string]float64, len(baseline))
	for i, id := range baseline {
		sum, count := 0.0, 0
		for _, e := range g.incoming[id] {
			if pos, ok := prevPos[e.From]; ok {
				sum += float64(pos)
				count++
			}
		}
		if count > 0 {
			bary[id] = sum / float64(count)
		} else {
			bary[id] = float64(i) + 0.5
		}
	}

	out := slices.Clone(baseline)
	slices.SortStableFunc(out, func(a, b string) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
	return out
}

// minSlotIndex returns the smallest slot index among the module's incoming
// slot-originated edges, or -1 when no incoming edge came from a slot.
func minSlotIndex(g *moduleGraph, id string) int {
	min := -1
	for _, e := range g.incoming[id] {
		if e.SlotIndex < 0 {
			continue
		}
		if min < 0 || e.SlotIndex < min {
			min = e.SlotIndex
		}
	}
	return min
}

// firstPredecessor returns the source of the module's first incoming edge in
// input order, or "" for modules without incoming edges.
func firstPredecessor(g *moduleGraph, id string) string {
	if in := g.incoming[id]; len(in) > 0 {
		return in[0].From
	}
	return ""
}
