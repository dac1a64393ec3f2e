package config

import "video-compressor/internal/domain"

// DefaultSettings returns the baseline compression options for first launch.
func DefaultSettings() domain.EncodeSettings {
	return domain.EncodeSettings{
		Preset:           domain.PresetMedium,
		Quality:          23,
		TargetHeight:     domain.TargetHeightSource,
		AudioBitrateKbps: 128,
		PreserveMetadata: true,
	}
}
