package config

import (
	"testing"

	"video-compressor/internal/domain"
)

// TestNormalizeFillsZeroValues checks defaults replace missing fields.
func TestNormalizeFillsZeroValues(t *testing.T) {
	got := Normalize(domain.EncodeSettings{Quality: 20})

	if got.Preset != domain.PresetMedium {
		t.Fatalf("preset = %q, want medium", got.Preset)
	}
	if got.Quality != 20 {
		t.Fatalf("quality = %d, want 20 preserved", got.Quality)
	}
	if got.TargetHeight != domain.TargetHeightSource {
		t.Fatalf("target height = %q, want source", got.TargetHeight)
	}
	if got.AudioBitrateKbps != 128 {
		t.Fatalf("audio bitrate = %d, want 128", got.AudioBitrateKbps)
	}
}

// TestNormalizeKeepsExplicitValues checks set fields are never overwritten.
func TestNormalizeKeepsExplicitValues(t *testing.T) {
	want := domain.EncodeSettings{
		Preset:           domain.PresetVeryslow,
		Quality:          18,
		TargetHeight:     domain.TargetHeight480,
		AudioBitrateKbps: 64,
	}
	if got := Normalize(want); got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

// TestValidateAcceptsDefaults checks the baseline settings pass validation.
func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(DefaultSettings()); err != nil {
		t.Fatalf("Validate(defaults) error = %v", err)
	}
}

// TestValidateRejectsBadValues checks each field is range-checked.
func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.EncodeSettings)
	}{
		{"unknown preset", func(s *domain.EncodeSettings) { s.Preset = "turbo" }},
		{"quality below minimum", func(s *domain.EncodeSettings) { s.Quality = 17 }},
		{"quality above maximum", func(s *domain.EncodeSettings) { s.Quality = 29 }},
		{"unknown height", func(s *domain.EncodeSettings) { s.TargetHeight = "2160" }},
		{"unsupported bitrate", func(s *domain.EncodeSettings) { s.AudioBitrateKbps = 100 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := DefaultSettings()
			tc.mutate(&settings)
			if err := Validate(settings); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
