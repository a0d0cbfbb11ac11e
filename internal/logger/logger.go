package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls the global zerolog logger.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "pretty"
	Output io.Writer
}

// Init replaces the global zerolog logger. An unknown level falls back to info
// and a nil Output writes to stdout.
func Init(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// Discard silences the global logger, e.g. while a full-screen TUI owns the terminal.
func Discard() {
	log.Logger = zerolog.Nop()
}
