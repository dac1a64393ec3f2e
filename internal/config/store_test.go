package config

import (
	"os"
	"path/filepath"
	"testing"

	"video-compressor/internal/domain"
)

// TestDefaultSettings verifies baseline defaults are present.
func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()
	if cfg.Preset != domain.PresetMedium {
		t.Fatalf("preset = %q, want medium", cfg.Preset)
	}
	if cfg.Quality != 23 {
		t.Fatalf("quality = %d, want 23", cfg.Quality)
	}
	if cfg.TargetHeight != domain.TargetHeightSource {
		t.Fatalf("target height = %q, want source", cfg.TargetHeight)
	}
	if cfg.AudioBitrateKbps != 128 {
		t.Fatalf("audio bitrate = %d, want 128", cfg.AudioBitrateKbps)
	}
	if !cfg.PreserveMetadata {
		t.Fatal("expected metadata preservation by default")
	}
}

// TestJSONStoreLoadMissingReturnsDefaults checks first-run behavior.
func TestJSONStoreLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "settings.json")
	store := NewJSONStore(path)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", got)
	}
}

// TestJSONStoreSaveAndLoadRoundTrip checks persisted settings fidelity.
func TestJSONStoreSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	store := NewJSONStore(path)
	want := domain.EncodeSettings{
		Preset:           domain.PresetSlow,
		Quality:          20,
		TargetHeight:     domain.TargetHeight720,
		AudioBitrateKbps: 192,
		PreserveMetadata: false,
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

// TestJSONStoreLoadInvalidJSON checks parse error handling.
func TestJSONStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not-json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewJSONStore(path)
	if _, err := store.Load(); err == nil {
		t.Fatal("expected json parse error")
	}
}
