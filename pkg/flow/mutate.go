package flow

import (
	"slices"

	"github.com/google/uuid"

	"github.com/storyflow/storyflow/pkg/errors"
)

// NewID returns a fresh node or edge identifier.
func NewID() string {
	return uuid.NewString()
}

// AddModule appends a new module node and returns it.
func (f *Flow) AddModule(label string, pos Position, size Size) Node {
	n := Node{
		ID:       NewID(),
		Kind:     KindModule,
		Label:    label,
		Position: pos,
		Size:     size,
	}
	f.Nodes = append(f.Nodes, n)
	return n
}

// AddSlot appends a new output slot to the given module. The slot gets the
// next free index so the parent's indices stay contiguous from 0.
func (f *Flow) AddSlot(parentID, label string) (Node, error) {
	parent, ok := f.Node(parentID)
	if !ok {
		return Node{}, errors.New(errors.ErrCodeNodeNotFound, "module %s not found", parentID)
	}
	if parent.IsSlot() {
		return Node{}, errors.New(errors.ErrCodeInvalidSlot, "cannot add a slot to slot %s", parentID)
	}

	n := Node{
		ID:        NewID(),
		Kind:      KindOutputSlot,
		Label:     label,
		ParentID:  parentID,
		SlotIndex: len(f.SlotsOf(parentID)),
	}
	f.Nodes = append(f.Nodes, n)
	return n, nil
}

// RemoveNode deletes a node together with everything that depends on it.
// Removing a module also removes its output slots; removing a slot
// reindexes its siblings so the parent's indices stay contiguous. Edges
// touching any removed node are dropped.
func (f *Flow) RemoveNode(id string) error {
	target, ok := f.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", id)
	}

	doomed := map[string]bool{id: true}
	if !target.IsSlot() {
		for _, s := range f.SlotsOf(id) {
			doomed[s.ID] = true
		}
	}

	f.Nodes = slices.DeleteFunc(f.Nodes, func(n Node) bool { return doomed[n.ID] })
	f.Edges = slices.DeleteFunc(f.Edges, func(e Edge) bool {
		return doomed[e.Source] || doomed[e.Target]
	})

	if target.IsSlot() {
		f.reindexSlots(target.ParentID)
	}
	return nil
}

// Connect adds a directed edge between two existing nodes and returns it.
// Anchors are optional; pass AnchorNone to leave a side unset.
func (f *Flow) Connect(source, target string, sourceAnchor, targetAnchor Anchor) (Edge, error) {
	if _, ok := f.Node(source); !ok {
		return Edge{}, errors.New(errors.ErrCodeNodeNotFound, "source %s not found", source)
	}
	if _, ok := f.Node(target); !ok {
		return Edge{}, errors.New(errors.ErrCodeNodeNotFound, "target %s not found", target)
	}
	if source == target {
		return Edge{}, errors.New(errors.ErrCodeInvalidEdge, "self connection on %s", source)
	}
	if !sourceAnchor.Valid() || !targetAnchor.Valid() {
		return Edge{}, errors.New(errors.ErrCodeInvalidEdge, "invalid anchor pair %q/%q", sourceAnchor, targetAnchor)
	}

	e := Edge{
		ID:           NewID(),
		Source:       source,
		Target:       target,
		SourceAnchor: sourceAnchor,
		TargetAnchor: targetAnchor,
	}
	f.Edges = append(f.Edges, e)
	return e, nil
}

// Disconnect removes the edge with the given id.
func (f *Flow) Disconnect(edgeID string) error {
	before := len(f.Edges)
	f.Edges = slices.DeleteFunc(f.Edges, func(e Edge) bool { return e.ID == edgeID })
	if len(f.Edges) == before {
		return errors.New(errors.ErrCodeNotFound, "edge %s not found", edgeID)
	}
	return nil
}

// ReorderSlots reassigns the slot indices of a module to match order, which
// must list every slot id of that module exactly once.
func (f *Flow) ReorderSlots(parentID string, order []string) error {
	slots := f.SlotsOf(parentID)
	if len(slots) == 0 {
		return errors.New(errors.ErrCodeNodeNotFound, "module %s has no slots", parentID)
	}
	if len(order) != len(slots) {
		return errors.New(errors.ErrCodeInvalidSlot,
			"order lists %d slots, module %s has %d", len(order), parentID, len(slots))
	}

	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := rank[id]; dup {
			return errors.New(errors.ErrCodeInvalidSlot, "slot %s listed twice", id)
		}
		rank[id] = i
	}
	for _, s := range slots {
		if _, ok := rank[s.ID]; !ok {
			return errors.New(errors.ErrCodeInvalidSlot, "order is missing slot %s", s.ID)
		}
	}

	for i := range f.Nodes {
		if idx, ok := rank[f.Nodes[i].ID]; ok && f.Nodes[i].IsSlot() && f.Nodes[i].ParentID == parentID {
			f.Nodes[i].SlotIndex = idx
		}
	}
	return nil
}

// reindexSlots renumbers a module's slots to 0..n-1 preserving their
// current relative order.
func (f *Flow) reindexSlots(parentID string) {
	slots := f.SlotsOf(parentID)
	rank := make(map[string]int, len(slots))
	for i, s := range slots {
		rank[s.ID] = i
	}
	for i := range f.Nodes {
		if idx, ok := rank[f.Nodes[i].ID]; ok {
			f.Nodes[i].SlotIndex = idx
		}
	}
}
