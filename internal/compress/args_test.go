package compress

import (
	"reflect"
	"testing"

	"video-compressor/internal/domain"
)

// TestBuildArgsFullSelection checks the complete ordered argument list.
func TestBuildArgsFullSelection(t *testing.T) {
	settings := domain.EncodeSettings{
		Preset:           domain.PresetMedium,
		Quality:          23,
		TargetHeight:     domain.TargetHeight720,
		AudioBitrateKbps: 128,
		PreserveMetadata: true,
	}

	got := BuildArgs(settings, "in.mp4", "out.mp4")
	want := []string{
		"-i", "in.mp4",
		"-map_metadata", "0",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-vf", "scale=-2:720",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

// TestBuildArgsSourceHeightOmitsScale checks no filter is added when the
// input resolution is kept.
func TestBuildArgsSourceHeightOmitsScale(t *testing.T) {
	settings := domain.EncodeSettings{
		Preset:           domain.PresetFast,
		Quality:          20,
		TargetHeight:     domain.TargetHeightSource,
		AudioBitrateKbps: 192,
	}

	got := BuildArgs(settings, "in.mp4", "out.mp4")
	for _, arg := range got {
		if arg == "-vf" {
			t.Fatalf("args = %v, want no -vf for source height", got)
		}
	}
}

// TestBuildArgsWithoutMetadata checks -map_metadata is absent when disabled.
func TestBuildArgsWithoutMetadata(t *testing.T) {
	settings := domain.EncodeSettings{
		Preset:           domain.PresetVeryslow,
		Quality:          28,
		TargetHeight:     domain.TargetHeight480,
		AudioBitrateKbps: 64,
		PreserveMetadata: false,
	}

	got := BuildArgs(settings, "in.mp4", "out.mp4")
	want := []string{
		"-i", "in.mp4",
		"-c:v", "libx264",
		"-preset", "veryslow",
		"-crf", "28",
		"-vf", "scale=-2:480",
		"-c:a", "aac",
		"-b:a", "64k",
		"-movflags", "+faststart",
		"out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

// TestBuildArgsIsPure checks repeated calls produce identical output.
func TestBuildArgsIsPure(t *testing.T) {
	settings := domain.EncodeSettings{
		Preset:           domain.PresetMedium,
		Quality:          23,
		TargetHeight:     domain.TargetHeight1080,
		AudioBitrateKbps: 256,
		PreserveMetadata: true,
	}

	first := BuildArgs(settings, "in.mp4", "out.mp4")
	second := BuildArgs(settings, "in.mp4", "out.mp4")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("args differ between calls: %v vs %v", first, second)
	}
}

// TestBuildArgsOutputIsLast checks the output name terminates the list.
func TestBuildArgsOutputIsLast(t *testing.T) {
	settings := domain.EncodeSettings{
		Preset:           domain.PresetUltrafast,
		Quality:          18,
		TargetHeight:     domain.TargetHeightSource,
		AudioBitrateKbps: 96,
		PreserveMetadata: true,
	}

	got := BuildArgs(settings, "clip.mov", "result.mp4")
	if got[len(got)-1] != "result.mp4" {
		t.Fatalf("last arg = %q, want result.mp4", got[len(got)-1])
	}
	if got[0] != "-i" || got[1] != "clip.mov" {
		t.Fatalf("input args = %v, want -i clip.mov first", got[:2])
	}
}
