package cache

import (
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Set("key", "value", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get("key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a cache hit")
	}
	if value != "value" {
		t.Errorf("Expected 'value', got: %s", value)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Get("absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected a cache miss")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Set("key", "value", 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, ok, err := store.Get("key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected entry to be expired")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()

	store.Set("key", "value", time.Minute)
	if err := store.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, ok, _ := store.Get("key"); ok {
		t.Error("Expected entry to be deleted")
	}
}

func TestMemoryStoreNoTTL(t *testing.T) {
	store := NewMemoryStore()

	store.Set("key", "value", 0)

	if _, ok, _ := store.Get("key"); !ok {
		t.Error("Entries without TTL must not expire")
	}
}

func TestFeedKeyStable(t *testing.T) {
	a := FeedKey("https://example.com/cal.ics")
	b := FeedKey("https://example.com/cal.ics")
	c := FeedKey("https://example.com/other.ics")

	if a != b {
		t.Errorf("Same URL must map to the same key: %s vs %s", a, b)
	}
	if a == c {
		t.Error("Different URLs must map to different keys")
	}
	if len(a) == 0 || a[:5] != "feed:" {
		t.Errorf("Unexpected key format: %s", a)
	}
}
