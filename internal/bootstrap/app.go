package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"video-compressor/internal/compress"
	"video-compressor/internal/config"
	"video-compressor/internal/diagnostics"
	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
	"video-compressor/internal/jobs"
	"video-compressor/internal/logging"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var videoDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Video files",
		Pattern:     "*.mp4;*.mov;*.mkv;*.avi;*.webm;*.m4v;*.mpg;*.mpeg;*.wmv",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// EncoderStatus reports the runtime loader state to the form.
type EncoderStatus struct {
	State   encoder.State `json:"state"`
	Message string        `json:"message,omitempty"`
}

// App wires configuration, the job manager, the encoder runtime, the
// compression pipeline, and UI runtime callbacks. It owns the process-wide
// singleton state: one encoder handle, one current job.
type App struct {
	Settings    domain.EncodeSettings
	Store       config.Store
	Jobs        *jobs.Manager
	Pipeline    pipelineRunner
	Encoder     *encoder.Loader
	Diagnostics domain.StartupReport
	assets      fs.FS
	checker     *diagnostics.Checker
	log         zerolog.Logger
	readFile    func(string) ([]byte, error)

	mu          sync.Mutex
	activeJobID string
	events      *jobs.EventBus
	runtimeCtx  context.Context
	result      []byte
	resultName  string
}

// pipelineRunner isolates the compression pipeline behind an interface.
type pipelineRunner interface {
	Run(ctx context.Context, req compress.Request) (compress.Result, error)
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded
// frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(homeDir, ".video-compressor", "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)

	checker := diagnostics.NewChecker()
	report := checker.Run(settings, encoder.Runtime{})

	return &App{
		Settings:    settings,
		Store:       store,
		Jobs:        jobs.NewManager(),
		Encoder:     encoder.NewLoader(filepath.Join(homeDir, ".video-compressor", "runtime")),
		Diagnostics: report,
		assets:      assets,
		checker:     checker,
		log:         logging.NewLogger(),
		readFile:    os.ReadFile,
		events:      jobs.NewEventBus(1000),
	}, nil
}

// Run starts the Wails application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Video Compressor",
		Width:       980,
		Height:      760,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores the Wails runtime context for push events and kicks off the
// one-time encoder runtime load.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = ctx
	a.mu.Unlock()

	go a.loadEncoderRuntime()
}

// loadEncoderRuntime drives uninitialized → loading → ready / load-failed.
// A failed load is permanent for the session; the form keeps start disabled.
func (a *App) loadEncoderRuntime() {
	a.emitEncoderStatus(EncoderStatus{State: encoder.StateLoading, Message: "Loading encoder runtime"})

	if err := a.Encoder.Load(context.Background()); err != nil {
		a.log.Error().Err(err).Msg("encoder runtime load failed")
		a.emitEncoderStatus(EncoderStatus{
			State:   encoder.StateLoadFailed,
			Message: "Could not load the encoder runtime. Check your network connection and restart the app.",
		})
		return
	}

	rt, err := a.Encoder.Runtime()
	if err != nil {
		a.log.Error().Err(err).Msg("encoder runtime unavailable after load")
		a.emitEncoderStatus(EncoderStatus{State: encoder.StateLoadFailed, Message: err.Error()})
		return
	}

	a.mu.Lock()
	if a.Pipeline == nil {
		a.Pipeline = compress.NewPipeline(rt.FFmpegPath)
	}
	settings := a.Settings
	a.mu.Unlock()

	a.refreshDiagnosticsFromSettings(settings, rt)
	a.log.Info().Str("ffmpeg", rt.FFmpegPath).Str("version", rt.Version).Msg("encoder runtime ready")
	a.emitEncoderStatus(EncoderStatus{State: encoder.StateReady})
}

// GetEncoderStatus returns the current runtime loader state.
func (a *App) GetEncoderStatus() EncoderStatus {
	state := a.Encoder.State()
	status := EncoderStatus{State: state}
	if state == encoder.StateLoadFailed {
		status.Message = "Could not load the encoder runtime. Check your network connection and restart the app."
	}
	return status
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.StartupReport {
	return a.Diagnostics
}

// RefreshDiagnostics reloads settings and reruns startup checks.
func (a *App) RefreshDiagnostics() (domain.StartupReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.StartupReport{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)

	rt, _ := a.Encoder.Runtime()
	return a.refreshDiagnosticsFromSettings(settings, rt), nil
}

func (a *App) refreshDiagnosticsFromSettings(settings domain.EncodeSettings, rt encoder.Runtime) domain.StartupReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Settings = settings
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(settings, rt)
	}
	return a.Diagnostics
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.EncodeSettings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.EncodeSettings{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes, validates, and persists settings, then refreshes
// diagnostics.
func (a *App) SaveSettings(settings domain.EncodeSettings) (domain.EncodeSettings, error) {
	normalized := config.Normalize(settings)
	if err := config.Validate(normalized); err != nil {
		return domain.EncodeSettings{}, err
	}
	if err := a.Store.Save(normalized); err != nil {
		return domain.EncodeSettings{}, fmt.Errorf("save settings: %w", err)
	}

	rt, _ := a.Encoder.Runtime()
	a.refreshDiagnosticsFromSettings(normalized, rt)
	return normalized, nil
}

// PickInputFile opens a native file dialog for video selection.
func (a *App) PickInputFile() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select video file",
		Filters: videoDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// StartEncode creates a job for the selected input and runs it
// asynchronously. It requires a ready encoder and no active job; there is no
// way to cancel a run once it starts.
func (a *App) StartEncode(inputPath string) (domain.Job, error) {
	a.mu.Lock()
	pipeline := a.Pipeline
	a.mu.Unlock()
	if pipeline == nil {
		return domain.Job{}, fmt.Errorf("encoder is not ready")
	}

	inputPath = strings.TrimSpace(inputPath)
	if inputPath == "" {
		return domain.Job{}, fmt.Errorf("no input file selected")
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}
	settings = config.Normalize(settings)
	if err := config.Validate(settings); err != nil {
		return domain.Job{}, err
	}

	input, err := a.readFile(inputPath)
	if err != nil {
		return domain.Job{}, fmt.Errorf("read input file: %w", err)
	}

	job := domain.Job{
		ID:        uuid.NewString(),
		InputName: filepath.Base(inputPath),
		InputSize: int64(len(input)),
		Settings:  settings,
	}
	if err := a.Jobs.Start(job); err != nil {
		return domain.Job{}, err
	}

	a.mu.Lock()
	a.activeJobID = job.ID
	a.Settings = settings
	a.result = nil
	a.resultName = ""
	a.mu.Unlock()

	a.publishStatus(job.ID, domain.JobStatusEncoding, "Job started")
	a.log.Info().Str("job", job.ID).Str("input", job.InputName).
		Str("size", humanize.Bytes(uint64(job.InputSize))).Msg("encode started")

	go a.runEncodeJob(pipeline, job.ID, job.InputName, input, settings)
	return a.Jobs.Current(), nil
}

// CurrentJob returns current job metadata and status.
func (a *App) CurrentJob() domain.Job {
	return a.Jobs.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// SaveResult offers the compressed bytes through the native save dialog. The
// suggested name matches the input file. Returns the chosen path, or an
// empty string when the user cancels.
func (a *App) SaveResult() (string, error) {
	a.mu.Lock()
	result := a.result
	resultName := a.resultName
	a.mu.Unlock()
	if len(result) == 0 {
		return "", fmt.Errorf("no compressed result available")
	}

	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.SaveFileDialog(ctx, wailsruntime.SaveDialogOptions{
		Title:           "Save compressed video",
		DefaultFilename: resultName,
		Filters:         videoDialogFilter,
	})
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	if err := os.WriteFile(path, result, 0o644); err != nil {
		return "", fmt.Errorf("write compressed file: %w", err)
	}
	return path, nil
}

// runEncodeJob executes the pipeline and maps outcomes to job events. The
// pipeline is the one captured at start time, never re-read from the app.
func (a *App) runEncodeJob(pipeline pipelineRunner, jobID, fileName string, input []byte, settings domain.EncodeSettings) {
	req := compress.Request{
		FileName: fileName,
		Input:    input,
		Settings: settings,
		OnLog: func(line string) {
			a.Jobs.AppendLog(line)
			a.publishEvent(jobs.Event{
				JobID: jobID,
				Type:  jobs.EventTypeLog,
				Line:  line,
			})
		},
		OnProgress: func(percent float64) {
			a.Jobs.SetProgress(percent)
			a.publishProgress(jobID)
		},
		OnProgressNudge: func(percent float64) {
			a.Jobs.NudgeProgress(percent)
			a.publishProgress(jobID)
		},
	}

	result, err := pipeline.Run(context.Background(), req)
	if err != nil {
		message := err.Error()
		var encodeErr *compress.EncodeError
		if errors.As(err, &encodeErr) {
			message = encodeErr.Message
		}

		_ = a.Jobs.Fail(message)
		a.log.Error().Err(err).Str("job", jobID).Msg("encode failed")
		a.publishStatus(jobID, domain.JobStatusFailed, "Job failed")
		a.publishEvent(jobs.Event{
			JobID:   jobID,
			Type:    jobs.EventTypeError,
			Status:  domain.JobStatusFailed,
			Message: message + " (see the job log for details)",
		})
		a.clearActiveJob(jobID)
		return
	}

	a.mu.Lock()
	a.result = result.Output
	a.resultName = result.OutputName
	a.mu.Unlock()

	_ = a.Jobs.Complete(result.OutputSize)
	a.publishStatus(jobID, domain.JobStatusDone, "Job completed")
	a.publishEvent(jobs.Event{
		JobID:      jobID,
		Type:       jobs.EventTypeResult,
		Status:     domain.JobStatusDone,
		Message:    sizeComparison(result.InputSize, result.OutputSize),
		InputSize:  result.InputSize,
		OutputSize: result.OutputSize,
		OutputName: result.OutputName,
	})
	a.log.Info().Str("job", jobID).
		Str("output", result.OutputName).
		Str("size", humanize.Bytes(uint64(result.OutputSize))).
		Msg("encode completed")
	a.clearActiveJob(jobID)
}

// sizeComparison renders the before/after summary shown next to the
// download button.
func sizeComparison(inputSize, outputSize int64) string {
	in := humanize.Bytes(uint64(inputSize))
	out := humanize.Bytes(uint64(outputSize))
	if inputSize <= 0 {
		return fmt.Sprintf("Compressed to %s", out)
	}
	if outputSize >= inputSize {
		return fmt.Sprintf("%s → %s (no size reduction)", in, out)
	}
	saved := 100 - float64(outputSize)/float64(inputSize)*100
	return fmt.Sprintf("%s → %s (%.1f%% smaller)", in, out, saved)
}

// publishProgress emits the manager's current progress value.
func (a *App) publishProgress(jobID string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeProgress,
		Percent: a.Jobs.Current().ProgressPercent,
	})
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(jobID string, status domain.JobStatus, message string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event jobs.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "job:event", published)
	}
}

// emitEncoderStatus pushes runtime loader transitions to the form.
func (a *App) emitEncoderStatus(status EncoderStatus) {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "encoder:status", status)
	}
}

// clearActiveJob clears bookkeeping for completed job IDs.
func (a *App) clearActiveJob(jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeJobID == jobID {
		a.activeJobID = ""
	}
}

// runtimeContext returns the current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}
