package bootstrap

import (
	"video-compressor/internal/config"
	"video-compressor/internal/domain"
)

var presetCatalog = []domain.PresetOption{
	{
		ID:          domain.PresetUltrafast,
		Name:        "Ultrafast",
		SpeedLabel:  "Fastest",
		Description: "Fastest encode, largest files.",
	},
	{
		ID:          domain.PresetSuperfast,
		Name:        "Superfast",
		SpeedLabel:  "Very fast",
		Description: "Very fast encode with modest compression.",
	},
	{
		ID:          domain.PresetVeryfast,
		Name:        "Veryfast",
		SpeedLabel:  "Very fast",
		Description: "Quick encode, reasonable compression.",
	},
	{
		ID:          domain.PresetFaster,
		Name:        "Faster",
		SpeedLabel:  "Fast",
		Description: "Fast encode with improved compression.",
	},
	{
		ID:          domain.PresetFast,
		Name:        "Fast",
		SpeedLabel:  "Fast",
		Description: "Slightly faster than medium with a small size cost.",
	},
	{
		ID:          domain.PresetMedium,
		Name:        "Medium",
		SpeedLabel:  "Balanced",
		Description: "Default balance of speed and compression.",
	},
	{
		ID:          domain.PresetSlow,
		Name:        "Slow",
		SpeedLabel:  "Slow",
		Description: "Better compression at a noticeable speed cost.",
	},
	{
		ID:          domain.PresetSlower,
		Name:        "Slower",
		SpeedLabel:  "Very slow",
		Description: "Strong compression, long encode times.",
	},
	{
		ID:          domain.PresetVeryslow,
		Name:        "Veryslow",
		SpeedLabel:  "Slowest",
		Description: "Best compression, slowest encode.",
	},
}

// GetEncodeOptions returns the option catalog the settings form renders:
// presets, target heights, audio bitrates, quality bounds, and defaults.
func (a *App) GetEncodeOptions() domain.EncodeOptions {
	presets := make([]domain.PresetOption, len(presetCatalog))
	copy(presets, presetCatalog)

	return domain.EncodeOptions{
		Presets:          presets,
		TargetHeights:    domain.TargetHeights(),
		AudioBitrates:    domain.AudioBitrates(),
		QualityMin:       domain.QualityMin,
		QualityMax:       domain.QualityMax,
		DefaultSelection: config.DefaultSettings(),
	}
}
