// Package dbglog provides the shared zerolog logger used across godbg's
// components, mirroring the sub-logger-per-component convention.
package dbglog

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds the root logger at the given level ("debug", "info", "warn",
// "error"). Unrecognized levels fall back to "info". Output goes to stderr so
// it never interleaves with REPL output on stdout; a console writer is used
// when stderr is a terminal, plain JSON otherwise.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var w zerolog.ConsoleWriter
	if isatty.IsTerminal(os.Stderr.Fd()) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// Component returns a sub-logger tagged with the given component name, the
// same pattern every package in this repo uses to scope its log lines.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
