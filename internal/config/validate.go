package config

import (
	"fmt"

	"video-compressor/internal/domain"
)

// Normalize fills zero-valued fields from defaults so partially edited
// settings files stay usable.
func Normalize(settings domain.EncodeSettings) domain.EncodeSettings {
	defaults := DefaultSettings()
	if settings.Preset == "" {
		settings.Preset = defaults.Preset
	}
	if settings.Quality == 0 {
		settings.Quality = defaults.Quality
	}
	if settings.TargetHeight == "" {
		settings.TargetHeight = defaults.TargetHeight
	}
	if settings.AudioBitrateKbps == 0 {
		settings.AudioBitrateKbps = defaults.AudioBitrateKbps
	}
	return settings
}

// Validate rejects settings outside the supported option set. Jobs never
// reach the argument translator with invalid values.
func Validate(settings domain.EncodeSettings) error {
	if err := validatePreset(settings.Preset); err != nil {
		return err
	}
	if settings.Quality < domain.QualityMin || settings.Quality > domain.QualityMax {
		return fmt.Errorf("quality must be between %d and %d, got %d", domain.QualityMin, domain.QualityMax, settings.Quality)
	}
	if err := validateTargetHeight(settings.TargetHeight); err != nil {
		return err
	}
	return validateAudioBitrate(settings.AudioBitrateKbps)
}

func validatePreset(preset domain.Preset) error {
	for _, known := range domain.Presets() {
		if preset == known {
			return nil
		}
	}
	return fmt.Errorf("unknown preset: %q", preset)
}

func validateTargetHeight(height domain.TargetHeight) error {
	for _, known := range domain.TargetHeights() {
		if height == known {
			return nil
		}
	}
	return fmt.Errorf("unknown target height: %q", height)
}

func validateAudioBitrate(kbps int) error {
	for _, known := range domain.AudioBitrates() {
		if kbps == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported audio bitrate: %d kbps", kbps)
}
