package logging

import (
	"bytes"
	"strings"
	"testing"
)

// TestLoggerDefaultLevelSkipsDebug checks debug output is off by default.
func TestLoggerDefaultLevelSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, false)

	log.Debug().Msg("hidden")
	log.Info().Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("output = %q, want no debug line", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("output = %q, want info line", out)
	}
}

// TestLoggerDebugMode checks debug lines pass when enabled.
func TestLoggerDebugMode(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, true)

	log.Debug().Msg("details")
	if !strings.Contains(buf.String(), "details") {
		t.Fatalf("output = %q, want debug line", buf.String())
	}
}
