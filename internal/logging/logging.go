// Package logging builds the application's root zerolog logger.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates the root logger.
//
// Parameters:
//   - level: zerolog level name ("debug", "info", "warn", ...); empty means info
//   - format: "console" for human readable output, anything else writes JSON lines
//   - w: destination of the log output
//
// Returns an error when the level cannot be parsed.
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
