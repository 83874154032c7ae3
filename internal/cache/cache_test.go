package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key([]byte(`{"rxTba": []}`))
	k2 := Key([]byte(`{"rxTba": []}`))
	k3 := Key([]byte(`{"rxTba": [{}]}`))

	if k1 != k2 {
		t.Error("Expected identical content to produce identical keys")
	}
	if k1 == k3 {
		t.Error("Expected different content to produce different keys")
	}
	if !strings.HasPrefix(k1, "claimline:v1:") {
		t.Errorf("Expected versioned key prefix, got %q", k1)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("report"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("report")) {
		t.Errorf("Expected stored value back, got %q (found=%v)", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Clear(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("Expected cache empty after clear")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := Key([]byte("content"))

	if err := c.Set(key, []byte("report"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("report")) {
		t.Errorf("Expected stored value back, got %q (found=%v)", val, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("k", []byte("report"), -time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to be dropped")
	}
}

func TestDiskCache_DeleteMissingIsFine(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Delete("never-set"); err != nil {
		t.Errorf("Expected no error deleting a missing key, got %v", err)
	}
}

func TestDiskCache_Clear(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("Expected cache empty after clear")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	// Write through another instance so only disk has the entry.
	other := NewDiskCache(dir, time.Hour)
	if err := other.Set("k", []byte("report"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("report")) {
		t.Fatalf("Expected disk hit, got %q (found=%v)", val, found)
	}

	// Remove the disk entry; the promoted copy must still serve.
	if err := other.Delete("k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, found := c.Get("k"); !found {
		t.Error("Expected memory promotion to survive disk deletion")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("k", []byte("report"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	disk := NewDiskCache(dir, time.Hour)
	if _, found := disk.Get("k"); !found {
		t.Error("Expected the entry persisted to disk")
	}
}
