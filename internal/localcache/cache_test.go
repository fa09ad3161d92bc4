// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package localcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := New[string](Config{MaxEntries: 10})

	c.Set("greeting", "hello", time.Minute)
	got, ok := c.Get("greeting")
	if !ok || got != "hello" {
		t.Errorf("Get = (%q, %v), want (hello, true)", got, ok)
	}

	if _, ok := c.Get("absent"); ok {
		t.Error("Get returned a value for a missing key")
	}
}

func TestExpiredEntryIsMissAndRemoved(t *testing.T) {
	c := New[int](Config{MaxEntries: 10})

	c.Set("short", 42, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Fatal("expired entry returned as a hit")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expired lookup, want 0", c.Len())
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := New[int](Config{MaxEntries: 10})

	c.Set("pinned", 7, 0)
	time.Sleep(2 * time.Millisecond)
	if _, ok := c.Get("pinned"); !ok {
		t.Error("entry with no TTL expired")
	}
}

func TestLRUEvictionAtCapacity(t *testing.T) {
	c := New[int](Config{MaxEntries: 3})

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)

	// Touch "a" so "b" becomes the coldest entry.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("warm entry missing")
	}

	c.Set("d", 4, time.Minute)

	if _, ok := c.Get("b"); ok {
		t.Error("coldest entry survived eviction")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %q evicted, want kept", key)
		}
	}
}

func TestSetSweepsExpiredBeforeEvicting(t *testing.T) {
	c := New[int](Config{MaxEntries: 2})

	c.Set("stale", 1, time.Millisecond)
	c.Set("fresh", 2, time.Minute)
	time.Sleep(5 * time.Millisecond)

	// The sweep removes "stale", so "fresh" survives the capacity check.
	c.Set("new", 3, time.Minute)

	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry evicted while an expired one was available")
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("new entry missing")
	}
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := New[string](Config{Path: path, MaxEntries: 10})
	c.Set("alpha", "first", time.Hour)
	c.Set("beta", "second", 0)
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded := New[string](Config{Path: path, MaxEntries: 10})
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded Len = %d, want 2", reloaded.Len())
	}
	if got, ok := reloaded.Get("alpha"); !ok || got != "first" {
		t.Errorf("alpha = (%q, %v), want (first, true)", got, ok)
	}
	if got, ok := reloaded.Get("beta"); !ok || got != "second" {
		t.Errorf("beta = (%q, %v), want (second, true)", got, ok)
	}
}

func TestLoadDropsExpiredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := New[int](Config{Path: path, MaxEntries: 10})
	c.Set("gone", 1, 10*time.Millisecond)
	c.Set("kept", 2, time.Hour)
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	reloaded := New[int](Config{Path: path, MaxEntries: 10})
	if _, ok := reloaded.Get("gone"); ok {
		t.Error("expired entry survived reload")
	}
	if _, ok := reloaded.Get("kept"); !ok {
		t.Error("live entry lost on reload")
	}
}

func TestReloadPreservesRecencyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := New[int](Config{Path: path, MaxEntries: 10})
	c.Set("cold", 1, time.Hour)
	c.Set("warm", 2, time.Hour)
	c.Set("hot", 3, time.Hour)
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded := New[int](Config{Path: path, MaxEntries: 3})
	// Adding one entry over capacity must evict the reloaded cold end.
	reloaded.Set("extra", 4, time.Hour)

	if _, ok := reloaded.Get("cold"); ok {
		t.Error("cold entry survived eviction after reload")
	}
	for _, key := range []string{"warm", "hot", "extra"} {
		if _, ok := reloaded.Get(key); !ok {
			t.Errorf("entry %q missing after reload", key)
		}
	}
}

func TestMissingFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")

	c := New[int](Config{Path: path, MaxEntries: 10})
	if c.Len() != 0 {
		t.Errorf("Len = %d for missing file, want 0", c.Len())
	}
}

func TestCorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte(`{"truncated":`), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New[int](Config{Path: path, MaxEntries: 10})
	if c.Len() != 0 {
		t.Errorf("Len = %d for corrupt file, want 0", c.Len())
	}

	// The cache stays usable and can overwrite the corrupt file.
	c.Set("a", 1, time.Hour)
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist over corrupt file: %v", err)
	}
	if reloaded := New[int](Config{Path: path, MaxEntries: 10}); reloaded.Len() != 1 {
		t.Error("persist after corrupt load did not recover the file")
	}
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c := New[int](Config{Path: path, MaxEntries: 10})
	c.Set("a", 1, time.Hour)
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "cache.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only cache.json", names)
	}
}

func TestMemoryOnlyPersistIsNoop(t *testing.T) {
	c := New[int](Config{MaxEntries: 10})
	c.Set("a", 1, time.Hour)
	if err := c.Persist(); err != nil {
		t.Errorf("Persist on memory-only cache: %v", err)
	}
}

func TestDelete(t *testing.T) {
	c := New[int](Config{MaxEntries: 10})
	c.Set("a", 1, time.Hour)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry still present")
	}
	c.Delete("a") // deleting twice is fine
}

func TestStructValues(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	path := filepath.Join(t.TempDir(), "cache.json")

	c := New[point](Config{Path: path, MaxEntries: 10})
	c.Set("origin", point{X: 3, Y: 4}, time.Hour)
	if err := c.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded := New[point](Config{Path: path, MaxEntries: 10})
	got, ok := reloaded.Get("origin")
	if !ok || got.X != 3 || got.Y != 4 {
		t.Errorf("reloaded struct = (%+v, %v)", got, ok)
	}
}
