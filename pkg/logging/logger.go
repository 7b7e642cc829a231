// Package logging builds the hclog loggers used by the fox5 tools.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Prefix marks every human-readable log line
const Prefix = "🦊 "

// NewLogger creates an hclog logger writing to output (stderr when nil).
// Human output is line-prefixed; JSON output is left untouched for
// collectors.
func NewLogger(name, level string, jsonFormat bool, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      ParseLevel(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// ParseLevel maps a level name to an hclog level. Unknown names fall back
// to warn rather than hclog's NoLevel.
func ParseLevel(level string) hclog.Level {
	l := hclog.LevelFromString(level)
	if l == hclog.NoLevel {
		return hclog.Warn
	}
	return l
}
