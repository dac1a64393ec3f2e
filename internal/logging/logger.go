package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger writing human-readable output to
// stderr, debug level when VIDEO_COMPRESSOR_DEBUG is set.
func NewLogger() zerolog.Logger {
	return newLogger(os.Stderr, os.Getenv("VIDEO_COMPRESSOR_DEBUG") != "")
}

func newLogger(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
