package compress

import (
	"fmt"
	"strconv"

	"video-compressor/internal/domain"
)

// BuildArgs translates compression settings into the ordered ffmpeg argument
// list for one run. It is pure: same settings and names, same arguments.
//
// Ordering is part of the encoder's argument grammar and must not change:
// metadata copy precedes codec selection, the scale filter follows codec and
// quality flags, and the output name is last.
func BuildArgs(settings domain.EncodeSettings, inputName, outputName string) []string {
	args := []string{"-i", inputName}

	if settings.PreserveMetadata {
		args = append(args, "-map_metadata", "0")
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", string(settings.Preset),
		"-crf", strconv.Itoa(settings.Quality),
	)

	if settings.TargetHeight != domain.TargetHeightSource {
		// -2 keeps the aspect ratio with an even width, which libx264 requires.
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%s", settings.TargetHeight))
	}

	args = append(args,
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", settings.AudioBitrateKbps),
	)

	// Index metadata moves to the front of the container so the output can
	// start playing before it is fully downloaded.
	args = append(args, "-movflags", "+faststart")

	args = append(args, outputName)
	return args
}
