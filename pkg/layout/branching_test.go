package layout

import (
	"fmt"
	"testing"

	"github.com/storyflow/storyflow/pkg/flow"
)

func TestBranchingGroupParentSize(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		slots      int
		wantHeight float64
	}{
		{1, 136},
		{2, 192},
		{3, 248},
		{5, 360},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dSlots", tt.slots), func(t *testing.T) {
			var slots []flow.Node
			for i := 0; i < tt.slots; i++ {
				slots = append(slots, slot(fmt.Sprintf("s%d", i), "p", i))
			}
			geo := BranchingGroup(flow.Position{}, slots, opts)
			want := flow.Size{Width: 312, Height: tt.wantHeight}
			if geo.ParentSize != want {
				t.Errorf("ParentSize = %+v, want %+v", geo.ParentSize, want)
			}
		})
	}
}

func TestBranchingGroupSlotStack(t *testing.T) {
	opts := DefaultOptions()
	parent := flow.Position{X: 100, Y: 200}
	slots := []flow.Node{
		slot("s0", "p", 0), slot("s1", "p", 1), slot("s2", "p", 2),
	}

	geo := BranchingGroup(parent, slots, opts)

	if geo.SlotSize != (flow.Size{Width: 280, Height: 44}) {
		t.Fatalf("SlotSize = %+v", geo.SlotSize)
	}
	for i, s := range slots {
		got := geo.SlotPos[s.ID]
		want := flow.Position{
			X: parent.X + opts.GroupPadding,
			Y: parent.Y + 76 + float64(i)*56,
		}
		if got != want {
			t.Errorf("slot %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestBranchingGroupIsPositionRelative(t *testing.T) {
	opts := DefaultOptions()
	slots := []flow.Node{slot("s0", "p", 0)}

	at0 := BranchingGroup(flow.Position{}, slots, opts)
	at1 := BranchingGroup(flow.Position{X: 50, Y: 60}, slots, opts)

	d := flow.Position{
		X: at1.SlotPos["s0"].X - at0.SlotPos["s0"].X,
		Y: at1.SlotPos["s0"].Y - at0.SlotPos["s0"].Y,
	}
	if d != (flow.Position{X: 50, Y: 60}) {
		t.Errorf("slot offset changed with parent position: %+v", d)
	}
	if at0.ParentSize != at1.ParentSize {
		t.Errorf("parent size depends on position: %+v vs %+v", at0.ParentSize, at1.ParentSize)
	}
}
