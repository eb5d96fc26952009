package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T, ttl time.Duration) *BoltContentCache {
	t.Helper()
	c, err := NewBoltContentCache(filepath.Join(t.TempDir(), "cache.db"), ttl)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBoltContentCacheRoundTrip(t *testing.T) {
	c := openTestCache(t, time.Minute)

	c.Put("doc1", "some document text")

	text, ok := c.Get("doc1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if text != "some document text" {
		t.Errorf("unexpected content: %q", text)
	}

	if _, ok := c.Get("other"); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestBoltContentCacheExpiry(t *testing.T) {
	c := openTestCache(t, time.Nanosecond)

	c.Put("doc1", "stale")
	time.Sleep(2 * time.Second)

	if _, ok := c.Get("doc1"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestBoltContentCacheInvalidate(t *testing.T) {
	c := openTestCache(t, time.Minute)

	c.Put("a", "1")
	c.Put("b", "2")
	c.Invalidate()

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after invalidate")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected miss after invalidate")
	}

	c.Put("c", "3")
	if _, ok := c.Get("c"); !ok {
		t.Error("expected cache usable after invalidate")
	}
}
