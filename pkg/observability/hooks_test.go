package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "greeting", 12)
	l.OnLayoutComplete(ctx, "greeting", 8, time.Second, nil)
	l.OnCollisionBudgetExhausted(ctx, "greeting", "ask")
	l.OnRenderStart(ctx, "greeting", "svg")
	l.OnRenderComplete(ctx, "greeting", "svg", 1024, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file", "greeting", time.Second, nil)
	s.OnSave(ctx, "file", "greeting", time.Second, nil)
}

type testLayoutHooks struct {
	NoopLayoutHooks
	starts int
}

func (h *testLayoutHooks) OnLayoutStart(ctx context.Context, flowID string, nodeCount int) {
	h.starts++
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(ctx context.Context, keyType string) { h.hits++ }

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()
	defer Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}
	Layout().OnLayoutStart(context.Background(), "greeting", 3)
	if customLayout.starts != 1 {
		t.Errorf("starts = %d, want 1", customLayout.starts)
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Nil registration is ignored
	SetLayoutHooks(nil)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks(nil) should keep existing hooks")
	}

	// Reset restores defaults
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset should restore noop hooks")
	}
}
