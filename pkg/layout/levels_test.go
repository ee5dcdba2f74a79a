package layout

import (
	"testing"

	"github.com/storyflow/storyflow/pkg/flow"
)

func TestAssignLevels(t *testing.T) {
	tests := []struct {
		name  string
		nodes []flow.Node
		edges []flow.Edge
		want  map[string]int
	}{
		{
			name:  "Chain",
			nodes: []flow.Node{module("root"), module("a"), module("b")},
			edges: []flow.Edge{edge("root", "a"), edge("a", "b")},
			want:  map[string]int{"root": 0, "a": 1, "b": 2},
		},
		{
			name:  "ConvergingBranchesTakeDeepestPredecessor",
			nodes: []flow.Node{module("root"), module("a"), module("b"), module("join")},
			edges: []flow.Edge{
				edge("root", "a"), edge("root", "join"),
				edge("a", "b"), edge("b", "join"),
			},
			// join is reachable at depth 1 and depth 3; the deepest wins.
			want: map[string]int{"root": 0, "a": 1, "b": 2, "join": 3},
		},
		{
			name:  "UnreachedModulesStayAtLevelZero",
			nodes: []flow.Node{module("root"), module("a"), module("island")},
			edges: []flow.Edge{edge("root", "a")},
			want:  map[string]int{"root": 0, "a": 1, "island": 0},
		},
		{
			name:  "FanOutIsOneLevelDown",
			nodes: []flow.Node{module("root"), module("a"), module("b"), module("c")},
			edges: []flow.Edge{edge("root", "a"), edge("root", "b"), edge("root", "c")},
			want:  map[string]int{"root": 0, "a": 1, "b": 1, "c": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildModuleGraph(tt.nodes, tt.edges, "", nil)
			levels := assignLevels(g)
			for id, want := range tt.want {
				if got := levels[id]; got != want {
					t.Errorf("level(%s) = %d, want %d", id, got, want)
				}
			}
		})
	}
}

// Every module edge reachable from the root set must point strictly downhill.
func TestLevelsStrictlyIncreaseAlongEdges(t *testing.T) {
	nodes := []flow.Node{
		module("root"), module("a"), module("b"), module("c"),
		module("d"), module("e"),
	}
	edges := []flow.Edge{
		edge("root", "a"), edge("root", "b"),
		edge("a", "c"), edge("b", "c"),
		edge("c", "d"), edge("a", "d"),
		edge("d", "e"), edge("root", "e"),
	}

	g := buildModuleGraph(nodes, edges, "", nil)
	levels := assignLevels(g)

	for _, e := range g.edges {
		if levels[e.To] <= levels[e.From] {
			t.Errorf("edge %s->%s: level %d -> %d, want strictly increasing",
				e.From, e.To, levels[e.From], levels[e.To])
		}
	}
}

func TestAssignLevelsTerminatesOnCycle(t *testing.T) {
	nodes := []flow.Node{module("a"), module("b"), module("c")}
	edges := []flow.Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")}

	g := buildModuleGraph(nodes, edges, "", nil)
	levels := assignLevels(g)

	// The visit budget caps relaxation: every module still gets some level.
	for _, id := range g.modules {
		if _, ok := levels[id]; !ok {
			t.Errorf("module %s has no level", id)
		}
	}
}
