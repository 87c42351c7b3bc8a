package ttlcache

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	t.Parallel()

	c := New[[]string](time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal(`c.Get("a") ok = true before any Set`)
	}

	c.Set("a", []string{"x", "y"})
	got, ok := c.Get("a")
	if !ok {
		t.Fatal(`c.Get("a") ok = false after Set`)
	}
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf(`c.Get("a") = %v, want: [x y]`, got)
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	c := New[int](30 * time.Second)
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("k", 7)

	now = base.Add(29 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal(`c.Get("k") ok = false before the TTL elapsed`)
	}

	now = base.Add(31 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal(`c.Get("k") ok = true after the TTL elapsed`)
	}
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error(`c.Get("a") ok = true after Invalidate`)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error(`c.Get("b") ok = false, Invalidate must only drop its key`)
	}

	c.Purge()
	if _, ok := c.Get("b"); ok {
		t.Error(`c.Get("b") ok = true after Purge`)
	}
}
