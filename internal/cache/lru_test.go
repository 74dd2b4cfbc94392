package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}

	c.Set("a", "one")
	got, ok := c.Get("a")
	if !ok || got != "one" {
		t.Fatalf("Get(a) = %q, %v; want one, true", got, ok)
	}

	c.Set("a", "two")
	got, _ = c.Get("a")
	if got != "two" {
		t.Fatalf("Get(a) after overwrite = %q; want two", got)
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d; want 1", c.Size())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a, making b the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a retained")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected c retained")
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRUCache[int](10, -time.Second)

	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Fatalf("Size = %d; want 0 after expired read", c.Size())
	}
}

func TestLRUDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("stats:42:category", 1)
	c.Set("stats:42:daily", 2)
	c.Set("stats:7:category", 3)

	if n := c.DeletePrefix("stats:42:"); n != 2 {
		t.Fatalf("DeletePrefix removed %d; want 2", n)
	}
	if _, ok := c.Get("stats:7:category"); !ok {
		t.Fatal("expected other user's entry retained")
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d; want 1", c.Size())
	}
}

func TestLRUCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, -time.Second)
	c.Set("a", 1)
	c.Set("b", 2)

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d; want 2", n)
	}
	if c.Size() != 0 {
		t.Fatalf("Size = %d; want 0", c.Size())
	}
}
