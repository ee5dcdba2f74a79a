package render

import (
	"strings"
	"testing"

	"github.com/storyflow/storyflow/pkg/flow"
)

func laidOutFlow() *flow.Flow {
	return &flow.Flow{
		ID: "f1",
		Nodes: []flow.Node{
			{ID: "greet", Kind: flow.KindModule, Label: "Say hello",
				Size: flow.Size{Width: 200, Height: 100}},
			{ID: "ask", Kind: flow.KindModule, Label: "Ask mood",
				Position: flow.Position{X: 520, Y: 0}, Size: flow.Size{Width: 312, Height: 192}},
			{ID: "yes", Kind: flow.KindOutputSlot, Label: "good", ParentID: "ask", SlotIndex: 0,
				Position: flow.Position{X: 536, Y: 76}, Size: flow.Size{Width: 280, Height: 44}},
			{ID: "bye", Kind: flow.KindModule, Label: "Goodbye",
				Position: flow.Position{X: 1152, Y: 76}, Size: flow.Size{Width: 200, Height: 100}},
		},
		Edges: []flow.Edge{
			{ID: "e1", Source: "greet", Target: "ask"},
			{ID: "e2", Source: "yes", Target: "bye"},
		},
	}
}

func TestToDOTPinsPositions(t *testing.T) {
	dot := ToDOT(laidOutFlow(), Options{})

	if !strings.Contains(dot, `layout="neato"`) {
		t.Error("missing neato layout directive")
	}
	// greet center = (100, 50), y negated
	if !strings.Contains(dot, `pos="100.00,-50.00!"`) {
		t.Errorf("greet position not pinned:\n%s", dot)
	}
	// module sizes travel in inches
	if !strings.Contains(dot, "width=2.778") {
		t.Errorf("greet width missing:\n%s", dot)
	}
}

func TestToDOTCollapsesSlotEdges(t *testing.T) {
	dot := ToDOT(laidOutFlow(), Options{})

	if strings.Contains(dot, `"yes" [`) {
		t.Error("slot rendered as its own node")
	}
	if !strings.Contains(dot, `"ask" -> "bye" [taillabel="good"]`) {
		t.Errorf("slot edge not collapsed to parent:\n%s", dot)
	}
	if !strings.Contains(dot, `"greet" -> "ask";`) {
		t.Errorf("plain edge missing:\n%s", dot)
	}
}

func TestToDOTBranchingFill(t *testing.T) {
	dot := ToDOT(laidOutFlow(), Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), `"ask" [`) {
			if !strings.Contains(line, "fillcolor=lightyellow") {
				t.Errorf("branching module not highlighted: %s", line)
			}
			return
		}
	}
	t.Fatal("ask node not found in DOT output")
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(laidOutFlow(), Options{Detailed: true})

	if !strings.Contains(dot, `Ask mood\n(520, 0)`) {
		t.Errorf("detailed label missing coordinates:\n%s", dot)
	}
}

func TestToDOTScale(t *testing.T) {
	dot := ToDOT(laidOutFlow(), Options{Scale: 0.5})

	// greet center scaled by 0.5
	if !strings.Contains(dot, `pos="50.00,-25.00!"`) {
		t.Errorf("scale not applied:\n%s", dot)
	}
}

func TestToDOTSkipsDanglingEdges(t *testing.T) {
	f := laidOutFlow()
	f.Edges = append(f.Edges, flow.Edge{ID: "e3", Source: "ghost", Target: "bye"})

	dot := ToDOT(f, Options{})
	if strings.Contains(dot, "ghost") {
		t.Errorf("dangling edge rendered:\n%s", dot)
	}
}
