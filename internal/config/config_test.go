package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, found, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Error("found should be false for a missing file")
	}
	if cfg.Cache.MaxEntries != defaultCacheMaxEntries {
		t.Errorf("MaxEntries mismatch: got %d, want %d", cfg.Cache.MaxEntries, defaultCacheMaxEntries)
	}
	if cfg.Player.MaxVolume != defaultPlayerMaxVolume {
		t.Errorf("MaxVolume mismatch: got %v, want %v", cfg.Player.MaxVolume, defaultPlayerMaxVolume)
	}
	if !cfg.Player.Eager {
		t.Error("Eager should default to true")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log_level = "debug"

[cache]
path = "/tmp/aria-test-cache.json"
max_entries = 10

[player]
eager = false
max_volume = 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, found, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Error("found should be true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel mismatch: got %q, want debug", cfg.LogLevel)
	}
	if cfg.Cache.MaxEntries != 10 {
		t.Errorf("MaxEntries mismatch: got %d, want 10", cfg.Cache.MaxEntries)
	}
	if cfg.Player.Eager {
		t.Error("Eager should be false")
	}
	if cfg.Player.MaxVolume != 0.5 {
		t.Errorf("MaxVolume mismatch: got %v, want 0.5", cfg.Player.MaxVolume)
	}
	// Omitted sections keep defaults.
	if len(cfg.Simulator.Devices) == 0 {
		t.Error("Simulator.Devices should keep defaults")
	}
}

func TestLoadRejectsBadVolumeCeiling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[player]\nmax_volume = 1.5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected error for max_volume > 1.0")
	}
}

func TestLoadExpandsHome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[cache]\npath = \"~/cache.json\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if !strings.HasPrefix(cfg.Cache.Path, home) {
		t.Errorf("cache path not expanded: %q", cfg.Cache.Path)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, found, err := Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !found {
		t.Error("sample config file should be found")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config invalid: %v", err)
	}

	if err := CreateSample(path, false); err == nil {
		t.Error("CreateSample should refuse to overwrite an existing file")
	}
}

func TestCreateSampleOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_level = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CreateSample(path, true); err != nil {
		t.Fatalf("CreateSample with overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[cache]") {
		t.Errorf("overwrite did not replace the file contents:\n%s", data)
	}
}
