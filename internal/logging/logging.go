// Package logging configures the zerolog logger shared by all commands.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the application logger type.
type Logger = zerolog.Logger

// Options selects level and output format.
type Options struct {
	Level  string
	Pretty bool
	Out    io.Writer // defaults to os.Stderr
}

// New builds a logger. Unknown levels fall back to info.
func New(opts Options) Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the component name.
func Component(l Logger, name string) Logger {
	return l.With().Str("component", name).Logger()
}

// Nop returns a disabled logger.
func Nop() Logger {
	return zerolog.Nop()
}
