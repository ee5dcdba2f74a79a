// Package render turns laid-out flows into shareable artifacts.
//
// # Overview
//
// The renderer consumes a flow whose node positions were computed by
// [pkg/layout] and emits Graphviz DOT with pinned positions, so the diagram
// on disk matches the editor canvas exactly. Graphviz only draws; it never
// re-layouts.
//
//	dot := render.ToDOT(f, render.Options{})
//	svg, err := render.SVG(dot)
//	png, err := render.PNG(dot)
//
// Branching modules are drawn as single boxes; their output slots appear as
// edge tail labels rather than separate nodes, matching how the editor
// presents collapsed groups.
package render
