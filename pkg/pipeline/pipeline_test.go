package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/storyflow/storyflow/pkg/cache"
	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/flow/store"
	"github.com/storyflow/storyflow/pkg/observability"
)

func seededStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	f := &flow.Flow{
		ID:   "greeting",
		Name: "Greeting",
		Nodes: []flow.Node{
			{ID: "greet", Kind: flow.KindModule, Size: flow.Size{Width: 200, Height: 100}},
			{ID: "ask", Kind: flow.KindModule, Size: flow.Size{Width: 200, Height: 100}},
		},
		Edges: []flow.Edge{{ID: "e1", Source: "greet", Target: "ask"}},
	}
	if err := s.Save(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	return s
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(seededStore(t), c, nil, nil)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)

	result, err := r.Execute(ctx, Options{
		FlowID:  "greeting",
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.NodeCount != 2 || result.Stats.EdgeCount != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.FlowHash == "" || result.LayoutHash == "" {
		t.Error("hashes not computed")
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact missing")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact missing or malformed")
	}

	// Layout moved the second module one level over.
	ask, ok := result.Laid.Node("ask")
	if !ok || ask.Position.X == 0 {
		t.Errorf("ask not positioned: %+v", ask)
	}
	// The input document is untouched.
	orig, _ := result.Flow.Node("ask")
	if orig.Position.X != 0 {
		t.Errorf("input document mutated: %+v", orig)
	}
}

func TestExecuteCachesLayout(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	opts := Options{FlowID: "greeting", Formats: []string{FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should be cold: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, Options{FlowID: "greeting", Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if second.LayoutHash != first.LayoutHash {
		t.Error("cache round trip changed the layout")
	}

	// Refresh bypasses every cache.
	third, err := r.Execute(ctx, Options{FlowID: "greeting", Formats: []string{FormatJSON}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run should be cold: %+v", third.CacheInfo)
	}
}

func TestExecuteInlineFlow(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil, nil)

	f := &flow.Flow{
		ID:    "inline",
		Nodes: []flow.Node{{ID: "only", Kind: flow.KindModule, Size: flow.Size{Width: 200, Height: 100}}},
	}
	result, err := r.Execute(ctx, Options{Flow: f})
	if err != nil {
		t.Fatal(err)
	}
	if result.Flow.ID != "inline" {
		t.Errorf("flow = %+v", result.Flow)
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("default json artifact missing")
	}
}

type saturationHooks struct {
	observability.NoopLayoutHooks
	exhausted []string
}

func (h *saturationHooks) OnCollisionBudgetExhausted(_ context.Context, _ string, nodeID string) {
	h.exhausted = append(h.exhausted, nodeID)
}

func TestExecuteReportsCollisionSaturation(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &saturationHooks{}
	observability.SetLayoutHooks(hooks)

	// Every child is anchored to the root's bottom, so each one lands on
	// the same spot and must be pushed past all of its siblings. The last
	// child needs more pushes than the default retry budget allows.
	f := &flow.Flow{
		ID:    "crowded",
		Nodes: []flow.Node{{ID: "root", Kind: flow.KindModule, Size: flow.Size{Width: 200, Height: 100}}},
	}
	for i := 0; i < 18; i++ {
		id := fmt.Sprintf("c%d", i)
		f.Nodes = append(f.Nodes, flow.Node{
			ID: id, Kind: flow.KindModule, Size: flow.Size{Width: 200, Height: 100},
		})
		f.Edges = append(f.Edges, flow.Edge{
			ID:           "e" + id,
			Source:       "root",
			Target:       id,
			SourceAnchor: flow.AnchorBottom,
			TargetAnchor: flow.AnchorTop,
		})
	}

	r := NewRunner(nil, nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Flow: f}); err != nil {
		t.Fatal(err)
	}

	if len(hooks.exhausted) == 0 {
		t.Fatal("collision budget exhaustion never reported")
	}
	if got := hooks.exhausted[len(hooks.exhausted)-1]; got != "c17" {
		t.Errorf("last exhausted node = %s, want c17", got)
	}
}

func TestExecuteValidation(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)

	if _, err := r.Execute(ctx, Options{}); err == nil {
		t.Error("empty options should fail")
	}
	if _, err := r.Execute(ctx, Options{FlowID: "greeting", Formats: []string{"gif"}}); err == nil {
		t.Error("unknown format should fail")
	}
	if _, err := r.Execute(ctx, Options{FlowID: "ghost"}); err == nil {
		t.Error("missing flow should fail")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	o := Options{FlowID: "greeting"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatJSON {
		t.Errorf("default formats = %v", o.Formats)
	}
	if o.Logger == nil {
		t.Error("logger default not applied")
	}

	lo := o.LayoutOptions()
	if lo.XSpacing != 320 || lo.YSpacing != 160 {
		t.Errorf("layout defaults = %+v", lo)
	}

	o2 := Options{FlowID: "greeting", XSpacing: 400}
	_ = o2.ValidateAndSetDefaults()
	if got := o2.LayoutOptions().XSpacing; got != 400 {
		t.Errorf("XSpacing override = %v", got)
	}
}
