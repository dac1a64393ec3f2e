package jobs

import (
	"errors"
	"sync"

	"video-compressor/internal/domain"
)

// ErrJobAlreadyRunning is returned when starting a second active job.
var ErrJobAlreadyRunning = errors.New("job already running")

// ErrNoActiveJob is returned when completing or failing without a job.
var ErrNoActiveJob = errors.New("no active job")

// MaxLogLines caps the per-job log; the oldest line is evicted beyond it.
const MaxLogLines = 200

// heuristicCeiling is the highest progress a log-derived nudge may report.
const heuristicCeiling = 95.0

// Manager tracks the single allowed active job. Starting a new job requires
// the previous one to be terminal (done or failed); while encoding every
// start is rejected.
type Manager struct {
	mu      sync.RWMutex
	current domain.Job
}

// NewManager creates a manager in idle state.
func NewManager() *Manager {
	return &Manager{
		current: domain.Job{
			Status: domain.JobStatusIdle,
		},
	}
}

// Start replaces any terminal job with a fresh encoding job. Progress, log,
// and output state reset to zero.
func (m *Manager) Start(job domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status == domain.JobStatusEncoding {
		return ErrJobAlreadyRunning
	}

	job.Status = domain.JobStatusEncoding
	job.ProgressPercent = 0
	job.LogLines = nil
	job.OutputSize = 0
	job.Error = ""
	m.current = job
	return nil
}

// AppendLog adds one line to the job log, evicting the oldest line past the
// cap. Lines arriving outside an active job are dropped.
func (m *Manager) AppendLog(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status != domain.JobStatusEncoding {
		return
	}
	m.current.LogLines = append(m.current.LogLines, line)
	if len(m.current.LogLines) > MaxLogLines {
		trim := len(m.current.LogLines) - MaxLogLines
		m.current.LogLines = append([]string(nil), m.current.LogLines[trim:]...)
	}
}

// SetProgress applies an explicit progress update clamped to [0,100].
// Updates are applied in arrival order; the source does not guarantee
// monotonic values and the manager does not enforce them.
func (m *Manager) SetProgress(percent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status != domain.JobStatusEncoding {
		return
	}
	m.current.ProgressPercent = clampPercent(percent)
}

// NudgeProgress applies a heuristic progress estimate. It only ever raises
// the reported value and never past the heuristic ceiling.
func (m *Manager) NudgeProgress(percent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status != domain.JobStatusEncoding {
		return
	}
	percent = clampPercent(percent)
	if percent > heuristicCeiling {
		percent = heuristicCeiling
	}
	if percent > m.current.ProgressPercent {
		m.current.ProgressPercent = percent
	}
}

// Complete marks the active job done with the produced output size and
// progress pinned at 100.
func (m *Manager) Complete(outputSize int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status != domain.JobStatusEncoding {
		return ErrNoActiveJob
	}
	m.current.Status = domain.JobStatusDone
	m.current.ProgressPercent = 100
	m.current.OutputSize = outputSize
	return nil
}

// Fail marks the active job failed with a user-facing message.
func (m *Manager) Fail(message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status != domain.JobStatusEncoding {
		return ErrNoActiveJob
	}
	m.current.Status = domain.JobStatusFailed
	m.current.Error = message
	return nil
}

// Current returns a snapshot of the current job with a copied log slice.
func (m *Manager) Current() domain.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := m.current
	if len(m.current.LogLines) > 0 {
		snapshot.LogLines = append([]string(nil), m.current.LogLines...)
	}
	return snapshot
}

// IsEncoding reports whether a job is currently active.
func (m *Manager) IsEncoding() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Status == domain.JobStatusEncoding
}

// Reset clears job state and returns the manager to idle.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = domain.Job{Status: domain.JobStatusIdle}
}

func clampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
