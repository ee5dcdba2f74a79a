package flow

import (
	"strings"
	"testing"
)

func testFlow() *Flow {
	return &Flow{
		ID:   "f1",
		Name: "greeting",
		Nodes: []Node{
			{ID: "greet", Kind: KindModule, Size: Size{Width: 200, Height: 100}},
			{ID: "ask", Kind: KindModule, Size: Size{Width: 312, Height: 192}},
			{ID: "no", Kind: KindOutputSlot, ParentID: "ask", SlotIndex: 1},
			{ID: "yes", Kind: KindOutputSlot, ParentID: "ask", SlotIndex: 0},
			{ID: "bye", Kind: KindModule, Size: Size{Width: 200, Height: 100}},
		},
		Edges: []Edge{
			{ID: "e1", Source: "greet", Target: "ask"},
			{ID: "e2", Source: "yes", Target: "bye"},
		},
	}
}

func TestModules(t *testing.T) {
	f := testFlow()
	mods := f.Modules()
	if len(mods) != 3 {
		t.Fatalf("Modules() returned %d nodes, want 3", len(mods))
	}
	want := []string{"greet", "ask", "bye"}
	for i, m := range mods {
		if m.ID != want[i] {
			t.Errorf("Modules()[%d] = %s, want %s", i, m.ID, want[i])
		}
	}
}

func TestSlotsOfSortsByIndex(t *testing.T) {
	f := testFlow()
	slots := f.SlotsOf("ask")
	if len(slots) != 2 {
		t.Fatalf("SlotsOf(ask) returned %d slots, want 2", len(slots))
	}
	if slots[0].ID != "yes" || slots[1].ID != "no" {
		t.Errorf("slot order = [%s, %s], want [yes, no]", slots[0].ID, slots[1].ID)
	}
	if f.SlotsOf("greet") != nil {
		t.Error("SlotsOf(greet) should be nil")
	}
}

func TestIsBranching(t *testing.T) {
	f := testFlow()
	if !f.IsBranching("ask") {
		t.Error("ask should be branching")
	}
	if f.IsBranching("greet") {
		t.Error("greet should not be branching")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := testFlow()
	c := f.Clone()
	c.Nodes[0].Position.X = 500
	c.Edges[0].Target = "bye"

	if f.Nodes[0].Position.X != 0 {
		t.Error("clone shares node storage with the original")
	}
	if f.Edges[0].Target != "ask" {
		t.Error("clone shares edge storage with the original")
	}
}

func TestReadFlowDefaultsKind(t *testing.T) {
	data := `{"id":"f1","nodes":[{"id":"a"}],"edges":[]}`
	f, err := ReadFlow(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if f.Nodes[0].Kind != KindModule {
		t.Errorf("Kind = %q, want %q", f.Nodes[0].Kind, KindModule)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	f := testFlow()
	data, err := MarshalFlow(f)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalFlow(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != f.ID || len(back.Nodes) != len(f.Nodes) || len(back.Edges) != len(f.Edges) {
		t.Errorf("round trip changed shape: %+v", back)
	}
	if got, _ := back.Node("no"); got.SlotIndex != 1 || got.ParentID != "ask" {
		t.Errorf("slot fields lost: %+v", got)
	}
}
