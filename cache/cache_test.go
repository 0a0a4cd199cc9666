package cache

import (
	"errors"
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time         { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newWithClock[T any](ttl time.Duration) (*Cache[T], *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := New[T](ttl)
	c.now = clock.now
	return c, clock
}

func TestCacheSet(t *testing.T) {
	c := New[string](0)
	c.Set("key1", "value1")

	val, exists := c.Get("key1")
	if !exists {
		t.Fatal("key1 should exist")
	}
	if val != "value1" {
		t.Fatalf("expected 'value1', got '%s'", val)
	}
}

func TestCacheGetMissing(t *testing.T) {
	c := New[string](0)

	if _, exists := c.Get("missing"); exists {
		t.Fatal("missing key should not exist")
	}
}

func TestCacheTTL(t *testing.T) {
	c, clock := newWithClock[string](30 * time.Second)
	c.Set("caps", "value")

	if _, exists := c.Get("caps"); !exists {
		t.Fatal("caps should exist immediately after set")
	}

	clock.advance(31 * time.Second)
	if _, exists := c.Get("caps"); exists {
		t.Fatal("caps should be expired after TTL")
	}
}

func TestCacheZeroTTL(t *testing.T) {
	c, clock := newWithClock[string](0)
	c.Set("key1", "value1")

	clock.advance(24 * time.Hour)
	if _, exists := c.Get("key1"); !exists {
		t.Fatal("key1 should never expire with TTL=0")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[int](0)
	c.Set("n", 1)
	c.Delete("n")
	if _, exists := c.Get("n"); exists {
		t.Fatal("n should be gone after Delete")
	}
}

func TestEntryExpiredAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if (Entry[int]{}).expiredAt(now) {
		t.Error("zero ExpiresAt should never expire")
	}
	if !(Entry[int]{ExpiresAt: now.Add(-time.Second)}).expiredAt(now) {
		t.Error("past ExpiresAt should be expired")
	}
	if (Entry[int]{ExpiresAt: now.Add(time.Second)}).expiredAt(now) {
		t.Error("future ExpiresAt should not be expired")
	}
}

func TestGetOrLoad(t *testing.T) {
	c, clock := newWithClock[int](time.Minute)
	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != 1 {
			t.Fatalf("GetOrLoad = %d, %v; want 1, nil", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("load called %d times, want 1", calls)
	}

	clock.advance(2 * time.Minute)
	if v, _ := c.GetOrLoad("k", load); v != 2 {
		t.Fatalf("after expiry GetOrLoad = %d, want 2", v)
	}
}

func TestGetOrLoadError(t *testing.T) {
	c := New[int](0)
	boom := errors.New("boom")

	if _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrLoad error = %v, want boom", err)
	}
	if _, exists := c.Get("k"); exists {
		t.Fatal("failed load must not be cached")
	}
}
