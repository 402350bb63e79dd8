package cache

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-offload/pkg/logging"
	"github.com/dd0wney/cluso-offload/pkg/offload"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "partitions"), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

// TestCache_PutGetRoundTrip tests persistence of a partition collection
func TestCache_PutGetRoundTrip(t *testing.T) {
	c := testCache(t)
	parts := offload.SubGraphCollection{
		{Nodes: []int{0, 1, 2}, Supported: true},
		{Nodes: []int{3}, Supported: false},
	}

	if err := c.Put(uuid.New(), "model_12345", parts); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := c.Get("model_12345")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a hit for a stored identity")
	}
	if !reflect.DeepEqual(got, parts) {
		t.Errorf("Expected %v, got %v", parts, got)
	}
}

// TestCache_Miss tests the not-found path
func TestCache_Miss(t *testing.T) {
	c := testCache(t)
	got, ok, err := c.Get("never_stored")
	if err != nil {
		t.Fatalf("A miss is not an error: %v", err)
	}
	if ok || got != nil {
		t.Error("Expected a clean miss")
	}
}

// TestCache_Overwrite tests that Put replaces an existing entry
func TestCache_Overwrite(t *testing.T) {
	c := testCache(t)
	id := uuid.New()
	if err := c.Put(id, "model_1", offload.SubGraphCollection{{Nodes: []int{0}, Supported: true}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	updated := offload.SubGraphCollection{{Nodes: []int{0, 1}, Supported: true}}
	if err := c.Put(id, "model_1", updated); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := c.Get("model_1")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, updated) {
		t.Errorf("Expected the overwritten entry, got %v", got)
	}
}

// TestCache_CorruptEntry tests the integrity check on a torn write
func TestCache_CorruptEntry(t *testing.T) {
	c := testCache(t)
	if err := c.Put(uuid.New(), "model_1", offload.SubGraphCollection{{Nodes: []int{0}, Supported: true}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	path := c.entryPath("model_1")
	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	buf[len(buf)-1] ^= 0xFF
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, ok, err := c.Get("model_1")
	if !errors.Is(err, ErrCorruptEntry) {
		t.Errorf("Expected ErrCorruptEntry, got %v", err)
	}
	if ok {
		t.Error("A corrupt entry must not count as a hit")
	}
}

// TestCache_BadVersion tests rejection of entries from a different format
func TestCache_BadVersion(t *testing.T) {
	c := testCache(t)
	if err := c.Put(uuid.New(), "model_1", offload.SubGraphCollection{{Nodes: []int{0}, Supported: true}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	path := c.entryPath("model_1")
	buf, _ := os.ReadFile(path)
	buf[0] = 0xEE
	os.WriteFile(path, buf, 0644)

	if _, _, err := c.Get("model_1"); !errors.Is(err, ErrCorruptEntry) {
		t.Errorf("Expected ErrCorruptEntry for a foreign version byte, got %v", err)
	}
}

// TestCache_Invalidate tests entry removal
func TestCache_Invalidate(t *testing.T) {
	c := testCache(t)
	if err := c.Put(uuid.New(), "model_1", offload.SubGraphCollection{{Nodes: []int{0}, Supported: true}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Invalidate("model_1"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok, _ := c.Get("model_1"); ok {
		t.Error("Invalidated entries must miss")
	}
	// Invalidating twice is fine
	if err := c.Invalidate("model_1"); err != nil {
		t.Errorf("Invalidate of a missing entry should succeed: %v", err)
	}
}

// TestCache_SanitizesIdentity tests that hostile identities stay inside the
// cache directory.
func TestCache_SanitizesIdentity(t *testing.T) {
	c := testCache(t)
	id := "../../escape/attempt_42"
	if err := c.Put(uuid.New(), id, offload.SubGraphCollection{{Nodes: []int{0}, Supported: true}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	path := c.entryPath(id)
	if filepath.Dir(path) != c.dir {
		t.Errorf("Entry path escapes the cache directory: %s", path)
	}
	if _, ok, err := c.Get(id); !ok || err != nil {
		t.Errorf("Sanitized identity should round-trip: ok=%v err=%v", ok, err)
	}
}
