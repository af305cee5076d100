// Package logger builds the root zerolog logger for the service. Components
// never construct their own loggers; they receive this one and derive
// sub-loggers with .With().Str("service"|"handler"|"component", ...).
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error; anything else falls back to info
	Pretty bool   // human-readable console output for dev mode
}

// New creates the root logger. The level is set on the returned instance
// rather than the global filter, so tests can run quiet loggers without
// touching shared state. JSON output by default; Pretty switches to the
// console writer.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetGlobalLogger routes the zerolog/log package-level logger through the
// given logger, so stray global log calls share the service's output.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
