package domain

// PresetOption describes one encoder preset for the settings form.
type PresetOption struct {
	ID          Preset `json:"id"`
	Name        string `json:"name"`
	SpeedLabel  string `json:"speedLabel"`
	Description string `json:"description"`
}

// EncodeOptions is the single source of truth the form renders its
// controls from.
type EncodeOptions struct {
	Presets          []PresetOption `json:"presets"`
	TargetHeights    []TargetHeight `json:"targetHeights"`
	AudioBitrates    []int          `json:"audioBitrates"`
	QualityMin       int            `json:"qualityMin"`
	QualityMax       int            `json:"qualityMax"`
	DefaultSelection EncodeSettings `json:"defaultSelection"`
}
