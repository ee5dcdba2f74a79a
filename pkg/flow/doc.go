// Package flow defines the node and edge records that make up a branching
// dialog flow, together with their canonical JSON serialization.
//
// A flow is a directed diagram of module nodes connected by edges. A module
// that branches owns an ordered set of output slots: child nodes of kind
// [KindOutputSlot] that each represent one outcome of the branch. Slots are
// identified by their parent module id and a zero-based, contiguous slot
// index. Edges may leave from a slot (the branch outcome) or from the module
// itself, and may carry optional anchor sides that pin the connection to a
// specific edge of the node's bounding box.
//
// The types in this package are plain records: the layout engine
// (pkg/layout) consumes them as an immutable snapshot, and the store
// (pkg/flow/store) enforces the structural invariants between mutations.
package flow
