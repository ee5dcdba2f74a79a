package flow

import "github.com/storyflow/storyflow/pkg/errors"

// Validate checks a flow document for structural integrity before it is
// persisted or handed to a layout pass. Layout itself tolerates malformed
// input and degrades; validation exists so stores and the API can reject
// bad documents with a precise error instead of silently degrading.
//
// Checked invariants:
//   - node and edge ids are non-empty and unique
//   - edge endpoints reference existing nodes
//   - edge anchors are valid anchor names
//   - slot parents reference existing module nodes
//   - each module's slot indices are contiguous from 0
func Validate(f *Flow) error {
	byID := make(map[string]Kind, len(f.Nodes))
	for _, n := range f.Nodes {
		if err := errors.ValidateID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidNode, err, "node id %q", n.ID)
		}
		if _, dup := byID[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidFlow, "duplicate node id: %s", n.ID)
		}
		if n.Kind != KindModule && n.Kind != KindOutputSlot {
			return errors.New(errors.ErrCodeInvalidNode, "node %s has unknown kind %q", n.ID, n.Kind)
		}
		byID[n.ID] = n.Kind
	}

	slotIndexes := make(map[string][]int)
	for _, n := range f.Nodes {
		if !n.IsSlot() {
			continue
		}
		parentKind, ok := byID[n.ParentID]
		if !ok {
			return errors.New(errors.ErrCodeInvalidSlot, "slot %s references missing parent %q", n.ID, n.ParentID)
		}
		if parentKind != KindModule {
			return errors.New(errors.ErrCodeInvalidSlot, "slot %s has non-module parent %s", n.ID, n.ParentID)
		}
		if n.SlotIndex < 0 {
			return errors.New(errors.ErrCodeInvalidSlot, "slot %s has negative index %d", n.ID, n.SlotIndex)
		}
		slotIndexes[n.ParentID] = append(slotIndexes[n.ParentID], n.SlotIndex)
	}
	for parent, idxs := range slotIndexes {
		seen := make([]bool, len(idxs))
		for _, i := range idxs {
			if i >= len(idxs) || seen[i] {
				return errors.New(errors.ErrCodeInvalidSlot,
					"module %s has non-contiguous slot indices", parent)
			}
			seen[i] = true
		}
	}

	edgeIDs := make(map[string]bool, len(f.Edges))
	for _, e := range f.Edges {
		if err := errors.ValidateID(e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEdge, err, "edge id %q", e.ID)
		}
		if edgeIDs[e.ID] {
			return errors.New(errors.ErrCodeInvalidFlow, "duplicate edge id: %s", e.ID)
		}
		edgeIDs[e.ID] = true
		if _, ok := byID[e.Source]; !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %s references missing source %q", e.ID, e.Source)
		}
		if _, ok := byID[e.Target]; !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %s references missing target %q", e.ID, e.Target)
		}
		if !e.SourceAnchor.Valid() {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %s has invalid source anchor %q", e.ID, e.SourceAnchor)
		}
		if !e.TargetAnchor.Valid() {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %s has invalid target anchor %q", e.ID, e.TargetAnchor)
		}
	}

	return nil
}
