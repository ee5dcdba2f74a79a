package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	// Miss before set
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("unexpected hit before Set")
	}

	// Round trip
	want := []byte("payload")
	if err := c.Set(ctx, "k1", want, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Expired entries read as misses
	if err := c.Set(ctx, "k2", want, time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k2"); hit {
		t.Error("expired entry should miss")
	}

	// Delete is idempotent
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("hit after Delete")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// FlowKey is readable, not hashed
	if got := k.FlowKey("file", "greeting"); got != "flow:file:greeting" {
		t.Errorf("FlowKey unexpected: %s", got)
	}

	// LayoutKey should include options in hash
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{XSpacing: 320, YSpacing: 160})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{XSpacing: 400, YSpacing: 160})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}

	// Selection changes the key
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{XSpacing: 320, YSpacing: 160, Selection: []string{"a"}})
	if lk1 == lk3 {
		t.Error("Selection should produce a different key")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("layout1", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("layout1", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "project:demo:")

	if got := scoped.FlowKey("file", "greeting"); got != "project:demo:flow:file:greeting" {
		t.Errorf("FlowKey unexpected: %s", got)
	}
	if scoped.LayoutKey("h", LayoutKeyOpts{}) == base.LayoutKey("h", LayoutKeyOpts{}) {
		t.Error("scoped key should differ from unscoped")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Non-retryable errors return immediately
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil || calls != 1 {
		t.Errorf("calls = %d, err = %v, want 1 call and error", calls, err)
	}

	// Cancellation wins over the backoff sleep
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	calls = 0
	err = RetryWithBackoff(cancelled, func() error {
		calls++
		return Retryable(errors.New("transient"))
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("calls = %d, err = %v, want 1 call and context.Canceled", calls, err)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(Retryable(errors.New("transient"))) {
		t.Error("wrapped error should be retryable")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
