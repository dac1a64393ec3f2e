package compress

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// preCompletionCeiling caps progress derived during the run; 100 is reserved
// for a successful completion.
const preCompletionCeiling = 99.0

var (
	durationRe = regexp.MustCompile(`Duration: (\d+):(\d{2}):(\d{2})\.(\d{2})`)
	logTimeRe  = regexp.MustCompile(`\btime=(\d+):(\d{2}):(\d{2})(?:\.(\d+))?`)
)

// progressTracker converts the encoder's interleaved output into percentage
// updates. Explicit updates come from the machine-readable progress stream
// (key=value batches on stdout); log lines feed a timestamp heuristic used
// as a fallback when explicit updates are sparse.
//
// The two streams are scanned on separate goroutines, so the duration learned
// from the stderr banner is guarded by a mutex.
type progressTracker struct {
	mu         sync.Mutex
	durationUs int64

	onExplicit func(percent float64)
	onNudge    func(percent float64)
}

func (t *progressTracker) duration() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.durationUs
}

// handleProgressLine consumes one line of the explicit progress stream.
func (t *progressTracker) handleProgressLine(line string) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)

	var outTimeUs int64 = -1
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds; ffmpeg kept the _ms name for
		// compatibility.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			outTimeUs = us
		}
	case "out_time":
		outTimeUs = parseClockTimeUs(value)
	default:
		return
	}

	durationUs := t.duration()
	if outTimeUs < 0 || durationUs <= 0 {
		return
	}
	percent := float64(outTimeUs) / float64(durationUs) * 100
	if percent > preCompletionCeiling {
		percent = preCompletionCeiling
	}
	if t.onExplicit != nil {
		t.onExplicit(percent)
	}
}

// handleLogLine consumes one encoder log line: it learns the input duration
// from the stream banner and nudges progress from inline timestamps.
func (t *progressTracker) handleLogLine(line string) {
	t.mu.Lock()
	if t.durationUs == 0 {
		if m := durationRe.FindStringSubmatch(line); m != nil {
			hours, _ := strconv.ParseInt(m[1], 10, 64)
			mins, _ := strconv.ParseInt(m[2], 10, 64)
			secs, _ := strconv.ParseInt(m[3], 10, 64)
			centis, _ := strconv.ParseInt(m[4], 10, 64)
			t.durationUs = ((hours*3600+mins*60+secs)*100 + centis) * 10000
			t.mu.Unlock()
			return
		}
	}
	durationUs := t.durationUs
	t.mu.Unlock()

	if durationUs <= 0 {
		return
	}
	m := logTimeRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	hours, _ := strconv.ParseInt(m[1], 10, 64)
	mins, _ := strconv.ParseInt(m[2], 10, 64)
	secs, _ := strconv.ParseInt(m[3], 10, 64)
	timeUs := (hours*3600 + mins*60 + secs) * 1000000
	percent := float64(timeUs) / float64(durationUs) * 100
	if t.onNudge != nil {
		t.onNudge(percent)
	}
}

// parseClockTimeUs parses ffmpeg's HH:MM:SS.microseconds clock format.
func parseClockTimeUs(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return -1
	}

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return -1
	}
	hours, err1 := strconv.ParseInt(parts[0], 10, 64)
	mins, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return -1
	}

	secParts := strings.Split(parts[2], ".")
	secs, err := strconv.ParseInt(secParts[0], 10, 64)
	if err != nil {
		return -1
	}

	var micros int64
	if len(secParts) > 1 {
		frac := secParts[1]
		for len(frac) < 6 {
			frac += "0"
		}
		if len(frac) > 6 {
			frac = frac[:6]
		}
		micros, _ = strconv.ParseInt(frac, 10, 64)
	}

	return hours*3600*1000000 + mins*60*1000000 + secs*1000000 + micros
}
