package layout_test

import (
	"fmt"

	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/layout"
)

func ExampleBuild() {
	// A simple linear conversation: greet, then ask, then say goodbye.
	size := flow.Size{Width: 200, Height: 100}
	nodes := []flow.Node{
		{ID: "greet", Kind: flow.KindModule, Size: size},
		{ID: "ask", Kind: flow.KindModule, Size: size},
		{ID: "goodbye", Kind: flow.KindModule, Size: size},
	}
	edges := []flow.Edge{
		{ID: "e1", Source: "greet", Target: "ask"},
		{ID: "e2", Source: "ask", Target: "goodbye"},
	}

	out := layout.Build(nodes, edges, layout.DefaultOptions())
	for _, n := range out {
		fmt.Printf("%s (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
	}
	// Output:
	// greet (0, 0)
	// ask (320, 0)
	// goodbye (640, 0)
}

func ExampleBuild_anchors() {
	// An explicit bottom-to-top connection stacks the reply directly
	// under the question instead of beside it.
	size := flow.Size{Width: 200, Height: 100}
	nodes := []flow.Node{
		{ID: "ask", Kind: flow.KindModule, Size: size},
		{ID: "reply", Kind: flow.KindModule, Size: size},
	}
	edges := []flow.Edge{{
		ID:           "e1",
		Source:       "ask",
		Target:       "reply",
		SourceAnchor: flow.AnchorBottom,
		TargetAnchor: flow.AnchorTop,
	}}

	out := layout.Build(nodes, edges, layout.DefaultOptions())
	for _, n := range out {
		fmt.Printf("%s (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
	}
	// Output:
	// ask (0, 0)
	// reply (0, 260)
}

func ExampleBranchingGroup() {
	slots := []flow.Node{
		{ID: "yes", Kind: flow.KindOutputSlot, ParentID: "ask", SlotIndex: 0},
		{ID: "no", Kind: flow.KindOutputSlot, ParentID: "ask", SlotIndex: 1},
	}

	geo := layout.BranchingGroup(flow.Position{X: 0, Y: 0}, slots, layout.DefaultOptions())
	fmt.Printf("parent %.0fx%.0f\n", geo.ParentSize.Width, geo.ParentSize.Height)
	for _, s := range slots {
		p := geo.SlotPos[s.ID]
		fmt.Printf("%s (%.0f, %.0f)\n", s.ID, p.X, p.Y)
	}
	// Output:
	// parent 312x192
	// yes (16, 76)
	// no (16, 132)
}
