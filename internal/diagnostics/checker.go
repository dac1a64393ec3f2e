// Package diagnostics runs the startup checks surfaced to the form: encoder
// binaries, scratch space, and saved settings.
package diagnostics

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"video-compressor/internal/config"
	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
)

// Checker validates the encoder runtime and required filesystem access.
type Checker struct {
	lookPath   func(string) (string, error)
	stat       func(string) (os.FileInfo, error)
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
	tempDir    func() string
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	return &Checker{
		lookPath:   exec.LookPath,
		stat:       os.Stat,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
		tempDir:    os.TempDir,
	}
}

// Run executes all startup checks and returns a combined report. The runtime
// may be zero-valued when the encoder has not loaded yet; tools are then
// resolved from PATH.
func (c *Checker) Run(settings domain.EncodeSettings, rt encoder.Runtime) domain.StartupReport {
	checks := []domain.CheckResult{
		c.checkEncoderBinary("ffmpeg", rt.FFmpegPath),
		c.checkEncoderBinary("ffprobe", rt.FFprobePath),
		c.checkScratchSpace(),
		checkSettings(settings),
	}

	hasFailures := false
	for _, check := range checks {
		if check.Status == domain.CheckStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.StartupReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Checks:      checks,
	}
}

// checkEncoderBinary verifies an encoder tool either at its loaded runtime
// path or on PATH.
func (c *Checker) checkEncoderBinary(name, runtimePath string) domain.CheckResult {
	check := domain.CheckResult{
		ID:   "tool_" + name,
		Name: name,
	}

	if strings.TrimSpace(runtimePath) != "" {
		if _, err := c.stat(runtimePath); err == nil {
			check.Status = domain.CheckStatusPass
			check.Message = fmt.Sprintf("Loaded at %s", runtimePath)
			return check
		}
		check.Status = domain.CheckStatusFail
		check.Message = fmt.Sprintf("Loaded runtime binary is missing: %s", runtimePath)
		check.Hint = "Restart the application to reload the encoder runtime."
		return check
	}

	path, err := c.lookPath(name)
	if err != nil {
		check.Status = domain.CheckStatusFail
		check.Message = fmt.Sprintf("Tool not found in PATH: %s", name)
		check.Hint = "The encoder runtime will be fetched at startup; check connectivity if loading fails."
		return check
	}

	check.Status = domain.CheckStatusPass
	check.Message = fmt.Sprintf("Found at %s", path)
	return check
}

// checkScratchSpace validates that job scratch storage can be created.
func (c *Checker) checkScratchSpace() domain.CheckResult {
	check := domain.CheckResult{
		ID:   "scratch_space",
		Name: "Scratch space",
	}

	dir := c.tempDir()
	tmpFile, err := c.createTemp(dir, ".write-check-*")
	if err != nil {
		check.Status = domain.CheckStatusFail
		check.Message = fmt.Sprintf("Scratch directory is not writable: %s", dir)
		check.Hint = "Free disk space or adjust permissions on the temporary directory."
		return check
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	check.Status = domain.CheckStatusPass
	check.Message = fmt.Sprintf("Writable directory: %s", dir)
	return check
}

// checkSettings validates the persisted compression options.
func checkSettings(settings domain.EncodeSettings) domain.CheckResult {
	check := domain.CheckResult{
		ID:   "settings",
		Name: "Compression settings",
	}

	if err := config.Validate(settings); err != nil {
		check.Status = domain.CheckStatusFail
		check.Message = err.Error()
		check.Hint = "Adjust the options in the form; defaults are applied when fields are left empty."
		return check
	}

	check.Status = domain.CheckStatusPass
	check.Message = "Settings are valid."
	return check
}

// NewCheckerForTests creates a checker with injectable dependencies.
func NewCheckerForTests(
	lookPath func(string) (string, error),
	stat func(string) (os.FileInfo, error),
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
	tempDir func() string,
) *Checker {
	return &Checker{
		lookPath:   lookPath,
		stat:       stat,
		createTemp: createTemp,
		remove:     remove,
		tempDir:    tempDir,
	}
}
