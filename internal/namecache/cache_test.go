package namecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveNormalizesNameVariants(t *testing.T) {
	cache := New("", 0, nil)
	cache.Add("track", "Bohemian Rhapsody", "aria:track:abc")

	variants := []string{
		"Bohemian Rhapsody",
		"bohemian rhapsody",
		"BOHEMIAN RHAPSODY",
		"  Bohemian Rhapsody  ",
	}
	for _, name := range variants {
		got, ok := cache.Resolve("track", name)
		if !ok {
			t.Errorf("Resolve(%q) missed", name)
			continue
		}
		if got != "aria:track:abc" {
			t.Errorf("Resolve(%q) = %q, want aria:track:abc", name, got)
		}
	}
}

func TestResolveRespectsKindNamespace(t *testing.T) {
	cache := New("", 0, nil)
	cache.Add("track", "Blue", "aria:track:t1")

	if _, ok := cache.Resolve("album", "Blue"); ok {
		t.Error("Resolve should not cross kind namespaces")
	}
}

func TestFuzzyResolve(t *testing.T) {
	cache := New("", 0, nil)
	cache.Add("track", "Stairway to Heaven", "aria:track:stairway")

	// Close variant clears the cutoff.
	got, ok := cache.Resolve("track", "stairway to heavn")
	if !ok || got != "aria:track:stairway" {
		t.Errorf("fuzzy resolve failed: got %q, ok=%v", got, ok)
	}

	// Distant name does not, even though a candidate exists.
	if _, ok := cache.Resolve("track", "smoke on the water"); ok {
		t.Error("fuzzy resolve should miss below the cutoff")
	}
}

func TestFuzzyResolveSameKindOnly(t *testing.T) {
	cache := New("", 0, nil)
	cache.Add("album", "Stairway to Heaven", "aria:album:a1")

	if _, ok := cache.Resolve("track", "stairway to heavn"); ok {
		t.Error("fuzzy resolve should only consider same-kind candidates")
	}
}

func TestEvictionHonorsCeiling(t *testing.T) {
	cache := New("", 3, nil)
	cache.Add("track", "one", "aria:track:1")
	cache.Add("track", "two", "aria:track:2")
	cache.Add("track", "three", "aria:track:3")
	cache.Add("track", "four", "aria:track:4")

	if got := cache.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	// Oldest-touched ("one") is gone, along with its reverse entry.
	if _, ok := cache.Resolve("track", "one"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := cache.NameForID("aria:track:1"); ok {
		t.Error("reverse entry should be removed with its forward entry")
	}
	if _, ok := cache.NameForID("aria:track:4"); !ok {
		t.Error("newest reverse entry missing")
	}
}

func TestResolveRefreshesRecency(t *testing.T) {
	cache := New("", 2, nil)
	cache.Add("track", "one", "aria:track:1")
	cache.Add("track", "two", "aria:track:2")

	// Touch "one" so "two" becomes the eviction candidate.
	if _, ok := cache.Resolve("track", "one"); !ok {
		t.Fatal("Resolve missed")
	}
	cache.Add("track", "three", "aria:track:3")

	if _, ok := cache.Resolve("track", "two"); ok {
		t.Error("least recently touched entry should have been evicted")
	}
	if _, ok := cache.Resolve("track", "one"); !ok {
		t.Error("recently touched entry should survive")
	}
}

func TestReAddRefreshesWithoutGrowing(t *testing.T) {
	cache := New("", 0, nil)
	cache.Add("track", "one", "aria:track:1")
	cache.Add("track", "ONE", "aria:track:1b")

	if got := cache.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1 after re-add", got)
	}
	got, _ := cache.Resolve("track", "one")
	if got != "aria:track:1b" {
		t.Errorf("re-add should replace the identifier: got %q", got)
	}
}

func TestSaveReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := New(path, 0, nil)
	cache.Add("track", "Bohemian Rhapsody", "aria:track:abc")
	cache.Add("artist", "Queen", "aria:artist:queen")
	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := New(path, 0, nil)
	if got, ok := reloaded.Resolve("track", "bohemian rhapsody"); !ok || got != "aria:track:abc" {
		t.Errorf("forward map did not round-trip: got %q, ok=%v", got, ok)
	}
	if got, ok := reloaded.Resolve("artist", "queen"); !ok || got != "aria:artist:queen" {
		t.Errorf("artist entry did not round-trip: got %q, ok=%v", got, ok)
	}
	if name, ok := reloaded.NameForID("aria:artist:queen"); !ok || name != "Queen" {
		t.Errorf("reverse map did not round-trip: got %q, ok=%v", name, ok)
	}
}

func TestReloadPreservesRecencyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := New(path, 0, nil)
	cache.Add("track", "zebra", "aria:track:z")
	cache.Add("track", "apple", "aria:track:a")
	cache.Add("track", "mango", "aria:track:m")
	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := New(path, 0, nil)
	want := []string{"zebra", "apple", "mango"}
	entries := reloaded.Entries()
	if len(entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("recency order after reload = %v, want %v", entryNames(entries), want)
		}
	}

	// Post-reload eviction must drop the true oldest entry.
	capped := New(path, 3, nil)
	capped.Add("track", "quince", "aria:track:q")
	if _, ok := capped.Resolve("track", "zebra"); ok {
		t.Errorf("oldest entry survived eviction after reload")
	}
	if _, ok := capped.Resolve("track", "apple"); !ok {
		t.Errorf("newer entry evicted after reload")
	}
}

func entryNames(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestLoadAcceptsLegacySeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	record := map[string]map[string]string{
		"cache":   {"track\x00bohemian rhapsody": "aria:track:abc"},
		"reverse": {"aria:track:abc": "Bohemian Rhapsody"},
	}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cache := New(path, 0, nil)
	if got, ok := cache.Resolve("track", "Bohemian Rhapsody"); !ok || got != "aria:track:abc" {
		t.Errorf("legacy separator entry not loaded: got %q, ok=%v", got, ok)
	}
}

func TestSaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache := New(path, 0, nil)
	cache.Add("track", "one", "aria:track:1")
	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat cache file: %v", err)
	}

	// A clean save must not rewrite the file.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove cache file: %v", err)
	}
	if err := cache.Save(); err != nil {
		t.Fatalf("clean Save failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("clean Save should be a no-op, file exists again (first written %v)", info.ModTime())
	}
}

func TestLoadToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cache := New(path, 0, nil)
	if got := cache.Len(); got != 0 {
		t.Errorf("corrupt file should yield an empty cache, got %d entries", got)
	}

	// The cache stays usable and can save over the corrupt file.
	cache.Add("track", "one", "aria:track:1")
	if err := cache.Save(); err != nil {
		t.Fatalf("Save over corrupt file failed: %v", err)
	}
}

func TestAddIgnoresEmptyValues(t *testing.T) {
	cache := New("", 0, nil)
	cache.Add("track", "", "aria:track:1")
	cache.Add("track", "name", "")
	if got := cache.Len(); got != 0 {
		t.Errorf("empty name or identifier should not be cached, got %d entries", got)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	cache := New(path, 0, nil)
	cache.Add("track", "one", "aria:track:1")
	if err := cache.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Error("Clear should empty the cache")
	}
	if err := cache.Save(); err != nil {
		t.Fatalf("Save after Clear failed: %v", err)
	}

	reloaded := New(path, 0, nil)
	if reloaded.Len() != 0 {
		t.Error("cleared cache should persist as empty")
	}
}
