// Package layout computes non-overlapping 2D positions for branching dialog
// flows so the flow direction stays readable.
//
// The engine is a single forward pipeline over an immutable snapshot of
// nodes and edges:
//
//  1. Collapse output slots into their owning modules and derive a
//     module-level directed graph (graph.go).
//  2. Partition the module graph into undirected connected components so
//     disjoint sub-flows land in separate spatial bands (components.go).
//  3. Assign each module a BFS depth from the root set (levels.go).
//  4. Order each depth to reduce edge crossings with a single forward
//     barycenter pass (ordering.go).
//  5. Convert (level, order, component) into coordinates, honoring explicit
//     per-connection anchor sides, and resolve bounding-box overlaps with a
//     bounded greedy downward push (position.go).
//  6. Re-stack each branching module's output slots and recompute the parent
//     bounding box (branching.go).
//  7. Shift the result so a chosen anchor module keeps its prior on-screen
//     location (layout.go).
//
// The whole pipeline can be scoped to a caller-supplied selection of
// modules; everything outside the selection is never repositioned but still
// participates in collision resolution as an immovable obstacle.
//
// The barycenter ordering is a heuristic approximation of the NP-hard
// minimum-crossing problem: residual crossings are expected, not defects.
// The engine is stateless and side-effect free: it returns a new node slice
// and never mutates caller-owned records, so calls are re-entrant as long as
// the caller doesn't mutate the snapshot concurrently.
package layout
