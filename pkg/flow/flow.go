package flow

import "slices"

// Kind distinguishes module nodes from the output slots they own.
type Kind string

const (
	// KindModule is a regular flow step: a line of dialog, an action, or a
	// branching choice.
	KindModule Kind = "module"

	// KindOutputSlot is a child node representing one outcome of a branching
	// module. Slots never exist on their own; they belong to exactly one
	// parent module and are ordered by SlotIndex.
	KindOutputSlot Kind = "outputSlot"
)

// Anchor names the side of a node's bounding box a connection visually
// leaves from or arrives at. The zero value means "unspecified": the layout
// engine falls back to default placement.
type Anchor string

const (
	AnchorNone   Anchor = ""
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

// Valid reports whether the anchor is one of the four sides or unspecified.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorNone, AnchorTop, AnchorBottom, AnchorLeft, AnchorRight:
		return true
	}
	return false
}

// Position is a point on the canvas in user units.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is a bounding-box extent in user units.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Node is a single diagram node: either a module or an output slot owned by
// a branching module. For slots, ParentID and SlotIndex identify the owner
// and the ordering within it; both are meaningless for modules.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Kind     Kind     `json:"kind" bson:"kind"`
	Label    string   `json:"label,omitempty" bson:"label,omitempty"`
	Position Position `json:"position" bson:"position"`
	Size     Size     `json:"size" bson:"size"`

	// ParentID is the owning module id (output slots only).
	ParentID string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	// SlotIndex is the zero-based position within the parent's slot stack
	// (output slots only). Indices are contiguous from 0 per parent.
	SlotIndex int `json:"slot_index,omitempty" bson:"slot_index,omitempty"`
}

// IsSlot reports whether the node is an output slot.
func (n Node) IsSlot() bool { return n.Kind == KindOutputSlot }

// Edge is a directed connection between two nodes. Source and Target may
// reference modules or output slots. Anchors are optional; when present they
// record the user-chosen connection sides and steer the layout engine's
// placement of the target relative to the source.
type Edge struct {
	ID           string `json:"id" bson:"id"`
	Source       string `json:"source" bson:"source"`
	Target       string `json:"target" bson:"target"`
	SourceAnchor Anchor `json:"source_anchor,omitempty" bson:"source_anchor,omitempty"`
	TargetAnchor Anchor `json:"target_anchor,omitempty" bson:"target_anchor,omitempty"`
}

// Flow is a complete dialog flow document: the unit of storage and the
// snapshot handed to the layout engine.
type Flow struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node returns the node with the given id and true, or a zero Node and false.
func (f *Flow) Node(id string) (Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Modules returns all module nodes in input order.
func (f *Flow) Modules() []Node {
	var out []Node
	for _, n := range f.Nodes {
		if !n.IsSlot() {
			out = append(out, n)
		}
	}
	return out
}

// SlotsOf returns the output slots owned by the given module, sorted by
// SlotIndex ascending. Returns nil for modules without slots.
func (f *Flow) SlotsOf(parentID string) []Node {
	var slots []Node
	for _, n := range f.Nodes {
		if n.IsSlot() && n.ParentID == parentID {
			slots = append(slots, n)
		}
	}
	slices.SortFunc(slots, func(a, b Node) int { return a.SlotIndex - b.SlotIndex })
	return slots
}

// IsBranching reports whether the module with the given id owns at least one
// output slot.
func (f *Flow) IsBranching(moduleID string) bool {
	for _, n := range f.Nodes {
		if n.IsSlot() && n.ParentID == moduleID {
			return true
		}
	}
	return false
}

// NodeCount returns the number of nodes in the flow.
func (f *Flow) NodeCount() int { return len(f.Nodes) }

// EdgeCount returns the number of edges in the flow.
func (f *Flow) EdgeCount() int { return len(f.Edges) }

// Clone returns a deep copy of the flow. Node and edge records are value
// types, so cloning the slices is sufficient.
func (f *Flow) Clone() *Flow {
	return &Flow{
		ID:    f.ID,
		Name:  f.Name,
		Nodes: slices.Clone(f.Nodes),
		Edges: slices.Clone(f.Edges),
	}
}
