// file: internal/cache/cache_test.go
// version: 2.0.0
// guid: 0a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d

package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetMissAndSet(t *testing.T) {
	c := New[string](time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
	c.Set("key", "value")
	value, ok := c.Get("key")
	if !ok || value != "value" {
		t.Fatalf("Get = %q, %v", value, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](time.Minute)
	c.SetWithTTL("short", 42, -time.Second)
	if _, ok := c.Get("short"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestGetOrFill(t *testing.T) {
	c := New[int](time.Minute)
	calls := 0
	fill := func() (int, error) {
		calls++
		return 7, nil
	}
	for i := 0; i < 3; i++ {
		value, err := c.GetOrFill("key", fill)
		if err != nil || value != 7 {
			t.Fatalf("GetOrFill = %d, %v", value, err)
		}
	}
	if calls != 1 {
		t.Fatalf("fill called %d times", calls)
	}

	wantErr := errors.New("boom")
	if _, err := c.GetOrFill("other", func() (int, error) { return 0, wantErr }); err != wantErr {
		t.Fatalf("expected fill error, got %v", err)
	}
	if _, ok := c.Get("other"); ok {
		t.Fatal("failed fill must not cache")
	}
}

func TestInvalidate(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("invalidated key should miss")
	}
	c.InvalidateAll()
	if _, ok := c.Get("b"); ok {
		t.Fatal("all keys should be gone")
	}
}
