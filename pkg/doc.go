// Package pkg provides the core libraries for Storyflow dialog layout.
//
// # Overview
//
// Storyflow arranges branching dialog flows on an infinite canvas and
// renders them as images. Flows are node/edge documents where modules carry
// output slots; the layout engine assigns grid positions, honors manual
// anchors, and restacks slot groups. The pkg directory is organized as:
//
//  1. [flow] - The document model (nodes, edges, slots) plus validation,
//     mutation helpers, and the storage backends under flow/store
//  2. [layout] - The placement engine (levels, ordering, anchors, collisions)
//  3. [render] - DOT generation and Graphviz-backed SVG/PNG rasterization
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//  5. [cache], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through Storyflow:
//
//	Flow document (JSON / file store / MongoDB)
//	         ↓
//	    [flow] package (validate, normalize)
//	         ↓
//	    [layout] package (levels → ordering → positions → slot groups)
//	         ↓
//	    [render] package (DOT → SVG/PNG)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
// Lay out a flow and render it:
//
//	import (
//	    "github.com/storyflow/storyflow/pkg/flow"
//	    "github.com/storyflow/storyflow/pkg/layout"
//	    "github.com/storyflow/storyflow/pkg/render"
//	)
//
//	f, _ := flow.ReadFlowFile("dialog.json")
//	laid, _ := layout.Flow(f, layout.DefaultOptions())
//	svg, _ := render.SVG(render.ToDOT(laid, render.Options{}))
//
// The [pipeline] package wraps the same steps with caching and is what the
// CLI and the HTTP API use.
//
// # Main Packages
//
// [flow] - Flow documents: modules, output slots, edges with anchor sides.
// Mutation helpers keep slot indices contiguous; Validate enforces the
// structural invariants. flow/store has file, memory, and MongoDB backends.
//
// [layout] - Deterministic layered placement. Connected components get
// separate horizontal bands, manual anchor pairs override the grid, and
// overlapping modules are pushed downward until free (with a bounded retry
// budget). Scoped layout rearranges a selection while routing around
// everything else.
//
// [render] - Emits Graphviz DOT with pinned positions so the image matches
// the canvas exactly, then rasterizes through goccy/go-graphviz.
//
// [pipeline] - Connects a flow store, the layout engine, and the renderer
// behind per-stage content-hash caching (file or Redis backed).
//
// [cache] - Cache interface, key derivation, and the file/Redis/null
// implementations shared by the pipeline.
//
// [errors] - Machine-readable error codes and id validation used across
// the store, the API, and the CLI.
//
// [observability] - No-op hook registry for layout, cache, and store
// instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [flow]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/flow
// [layout]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/layout
// [render]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/cache
// [errors]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/storyflow/storyflow/pkg/buildinfo
package pkg
