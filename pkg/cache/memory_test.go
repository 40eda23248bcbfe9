package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", []int{1, 2, 3}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got []int
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("unexpected value %v", got)
	}

	var missing []int
	if err := mc.Get(ctx, "absent", &missing); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(10 * time.Millisecond))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", 5*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mc.mutex.RLock()
		_, present := mc.data["k"]
		mc.mutex.RUnlock()
		if !present {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expired entry never purged by the cleanup loop")
}

func TestMemoryCacheCloseIdempotent(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(10 * time.Millisecond))
	if err := mc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// second Close must not panic on the quit channel
	if err := mc.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
