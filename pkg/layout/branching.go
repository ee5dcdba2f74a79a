package layout

import "github.com/storyflow/storyflow/pkg/flow"

// SlotGeometry describes the recomputed layout of one branching group: the
// parent's new size and the absolute position of each slot, keyed by slot
// id. Slot geometry is derived purely from the slot count and index, never
// stored, so this must be recomputed after every layout pass and
// after any slot add/remove/reorder.
type SlotGeometry struct {
	ParentSize flow.Size
	SlotPos    map[string]flow.Position
	SlotSize   flow.Size
}

// BranchingGroup lays out a branching module's output slots as a fixed
// vertical stack under the parent's header and recomputes the parent's
// bounding box from the slot count:
//
//	slot i y = header + slotSpacing + firstSlotSpacing + i*(slotHeight+slotSpacing)
//	height   = header + slotSpacing + firstSlotSpacing + N*slotHeight + (N-1)*slotSpacing + padding
//	width    = slotWidth + 2*padding
//
// slots must be the parent's slots sorted by SlotIndex ascending and must
// not be empty: a branching module always owns at least one slot when
// layout runs (an empty group is an upstream store bug, not handled here).
func BranchingGroup(parentPos flow.Position, slots []flow.Node, opts Options) SlotGeometry {
	n := float64(len(slots))
	geo := SlotGeometry{
		ParentSize: flow.Size{
			Width: opts.SlotWidth + 2*opts.GroupPadding,
			Height: opts.HeaderHeight + opts.SlotSpacing + opts.FirstSlotSpacing +
				n*opts.SlotHeight + (n-1)*opts.SlotSpacing + opts.GroupPadding,
		},
		SlotPos:  make(map[string]flow.Position, len(slots)),
		SlotSize: flow.Size{Width: opts.SlotWidth, Height: opts.SlotHeight},
	}

	for i, s := range slots {
		geo.SlotPos[s.ID] = flow.Position{
			X: parentPos.X + opts.GroupPadding,
			Y: parentPos.Y + opts.HeaderHeight + opts.SlotSpacing + opts.FirstSlotSpacing +
				float64(i)*(opts.SlotHeight+opts.SlotSpacing),
		}
	}
	return geo
}
