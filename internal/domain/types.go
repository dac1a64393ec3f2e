package domain

// JobStatus tracks the lifecycle of a single compression job.
type JobStatus string

const (
	JobStatusIdle     JobStatus = "idle"
	JobStatusEncoding JobStatus = "encoding"
	JobStatusDone     JobStatus = "done"
	JobStatusFailed   JobStatus = "failed"
)

// Preset is an encoder speed/efficiency tradeoff level; slower compresses better.
type Preset string

const (
	PresetUltrafast Preset = "ultrafast"
	PresetSuperfast Preset = "superfast"
	PresetVeryfast  Preset = "veryfast"
	PresetFaster    Preset = "faster"
	PresetFast      Preset = "fast"
	PresetMedium    Preset = "medium"
	PresetSlow      Preset = "slow"
	PresetSlower    Preset = "slower"
	PresetVeryslow  Preset = "veryslow"
)

// Presets lists all encoder presets from fastest to slowest.
func Presets() []Preset {
	return []Preset{
		PresetUltrafast,
		PresetSuperfast,
		PresetVeryfast,
		PresetFaster,
		PresetFast,
		PresetMedium,
		PresetSlow,
		PresetSlower,
		PresetVeryslow,
	}
}

// TargetHeight selects the output frame height; "source" keeps the input size.
type TargetHeight string

const (
	TargetHeightSource TargetHeight = "source"
	TargetHeight1080   TargetHeight = "1080"
	TargetHeight720    TargetHeight = "720"
	TargetHeight480    TargetHeight = "480"
)

// TargetHeights lists the selectable output heights.
func TargetHeights() []TargetHeight {
	return []TargetHeight{TargetHeightSource, TargetHeight1080, TargetHeight720, TargetHeight480}
}

// CRF bounds accepted by the settings form and validation.
const (
	QualityMin = 18
	QualityMax = 28
)

// AudioBitrates lists the selectable AAC bitrates in kbps.
func AudioBitrates() []int {
	return []int{64, 96, 128, 160, 192, 256}
}

// EncodeSettings contains the user-selected compression options. A snapshot
// is taken when a job starts and never mutated afterwards.
type EncodeSettings struct {
	Preset           Preset       `json:"preset"`
	Quality          int          `json:"quality"`
	TargetHeight     TargetHeight `json:"targetHeight"`
	AudioBitrateKbps int          `json:"audioBitrateKbps"`
	PreserveMetadata bool         `json:"preserveMetadata"`
}

// Job stores identity, settings snapshot, and observable state of the single
// active compression job. Result bytes live in the app, not in the snapshot.
type Job struct {
	ID              string         `json:"id"`
	InputName       string         `json:"inputName"`
	InputSize       int64          `json:"inputSize"`
	Settings        EncodeSettings `json:"settings"`
	Status          JobStatus      `json:"status"`
	ProgressPercent float64        `json:"progressPercent"`
	LogLines        []string       `json:"logLines"`
	OutputSize      int64          `json:"outputSize,omitempty"`
	Error           string         `json:"error,omitempty"`
}
