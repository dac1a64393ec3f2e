// Package compress drives the external encoder: it translates settings into
// arguments, moves bytes through the encoder's scratch storage, and relays
// progress and log events while a job runs.
package compress

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"video-compressor/internal/config"
	"video-compressor/internal/domain"
	"video-compressor/internal/workspace"
)

// Fixed logical names for the one input and one output of a job.
const (
	inputName  = "input.mp4"
	outputName = "output.mp4"
)

// outputExtension is appended to the suggested download name when the input
// file name carries no extension.
const outputExtension = ".mp4"

// Request contains the input bytes, the settings snapshot, and execution
// callbacks for one run.
type Request struct {
	// FileName is the name of the picked input file, used to suggest the
	// output name.
	FileName string
	Input    []byte
	Settings domain.EncodeSettings

	// OnLog receives encoder log lines in arrival order.
	OnLog func(line string)
	// OnProgress receives explicit progress percentages.
	OnProgress func(percent float64)
	// OnProgressNudge receives heuristic estimates derived from timestamps
	// in log lines. Consumers treat these as raise-only hints.
	OnProgressNudge func(percent float64)
}

// Result contains the compressed bytes and size accounting for one run.
type Result struct {
	Output     []byte
	OutputName string
	InputSize  int64
	OutputSize int64
}

// EncodeError is a stage-aware error raised by the pipeline.
type EncodeError struct {
	Stage    string `json:"stage"`
	Message  string `json:"message"`
	ExitCode int    `json:"exitCode"`
	Err      error  `json:"-"`
}

// Error formats pipeline failures for logs and UI.
func (e *EncodeError) Error() string {
	if e == nil {
		return ""
	}
	if e.ExitCode == 0 {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s (exit=%d)", e.Stage, e.Message, e.ExitCode)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *EncodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Pipeline sequences write-input, invoke, read-output, and cleanup against
// the external encoder.
type Pipeline struct {
	ffmpegPath   string
	runner       streamRunner
	newWorkspace func() (*workspace.Store, error)
}

// NewPipeline constructs the production pipeline around a resolved encoder
// binary.
func NewPipeline(ffmpegPath string) *Pipeline {
	return &Pipeline{
		ffmpegPath:   ffmpegPath,
		runner:       &execStreamRunner{},
		newWorkspace: workspace.New,
	}
}

// Run performs one compression job. Scratch storage is cleaned up best
// effort in every outcome; cleanup failures are swallowed.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if len(req.Input) == 0 {
		return Result{}, &EncodeError{
			Stage:   "write-input",
			Message: "no input bytes provided",
		}
	}
	if err := config.Validate(req.Settings); err != nil {
		return Result{}, &EncodeError{
			Stage:   "write-input",
			Message: err.Error(),
			Err:     err,
		}
	}

	ws, err := p.newWorkspace()
	if err != nil {
		return Result{}, &EncodeError{
			Stage:   "write-input",
			Message: "failed to create encoder scratch storage",
			Err:     err,
		}
	}
	defer func() {
		_ = ws.Remove(inputName)
		_ = ws.Remove(outputName)
		_ = ws.Close()
	}()

	if err := ws.Write(inputName, req.Input); err != nil {
		return Result{}, &EncodeError{
			Stage:   "write-input",
			Message: "failed to write input into encoder storage",
			Err:     err,
		}
	}

	inputPath, err := ws.Path(inputName)
	if err != nil {
		return Result{}, &EncodeError{Stage: "write-input", Message: err.Error(), Err: err}
	}
	outputPath, err := ws.Path(outputName)
	if err != nil {
		return Result{}, &EncodeError{Stage: "write-input", Message: err.Error(), Err: err}
	}

	tracker := &progressTracker{
		onExplicit: req.OnProgress,
		onNudge:    req.OnProgressNudge,
	}
	args := append(invocationArgs(), BuildArgs(req.Settings, inputPath, outputPath)...)

	exitCode, runErr := p.runner.Run(ctx, p.ffmpegPath, args,
		tracker.handleProgressLine,
		func(line string) {
			emitLog(req.OnLog, line)
			tracker.handleLogLine(line)
		},
	)
	if runErr != nil {
		return Result{}, &EncodeError{
			Stage:    "encode",
			Message:  "encoder invocation failed",
			ExitCode: exitCode,
			Err:      runErr,
		}
	}

	output, err := ws.Read(outputName)
	if err != nil {
		return Result{}, &EncodeError{
			Stage:   "read-output",
			Message: "encoder completed but output is missing",
			Err:     err,
		}
	}

	return Result{
		Output:     output,
		OutputName: SuggestedOutputName(req.FileName),
		InputSize:  int64(len(req.Input)),
		OutputSize: int64(len(output)),
	}, nil
}

// invocationArgs returns the run-level flags prepended to every translated
// argument list: quiet startup, no stdin, overwrite, and the machine-readable
// progress stream on stdout.
func invocationArgs() []string {
	return []string{"-hide_banner", "-nostdin", "-y", "-progress", "pipe:1"}
}

// SuggestedOutputName derives the download name from the picked input file:
// the same name, with the container extension appended when absent.
func SuggestedOutputName(fileName string) string {
	base := strings.TrimSpace(filepath.Base(fileName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "output" + outputExtension
	}
	if filepath.Ext(base) == "" {
		return base + outputExtension
	}
	return base
}

// emitLog forwards log lines when a callback is configured.
func emitLog(callback func(line string), line string) {
	if callback != nil {
		callback(line)
	}
}

// NewPipelineForTests constructs a pipeline with injectable dependencies.
func NewPipelineForTests(
	ffmpegPath string,
	runner streamRunner,
	newWorkspace func() (*workspace.Store, error),
) *Pipeline {
	return &Pipeline{
		ffmpegPath:   ffmpegPath,
		runner:       runner,
		newWorkspace: newWorkspace,
	}
}
