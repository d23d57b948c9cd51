// Package logger constructs the process-wide logr.Logger, backed by
// zerolog, that every package in this module accepts through constructor
// injection rather than reaching for a global.
package logger

import (
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
}

// NewZeroLogr returns a console-formatted logr.Logger writing to stderr at
// info level. Call WithName/WithValues on the result to scope it to a
// component, the same way cmd/simulate scopes its own copy to "simulate".
func NewZeroLogr() logr.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	zl := zerolog.New(writer).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return zerologr.New(&zl)
}

// NewDebugZeroLogr is NewZeroLogr but with verbosity raised so V(1) messages
// (the simulator's per-call structured events) are emitted.
func NewDebugZeroLogr() logr.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	zl := zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return zerologr.New(&zl)
}
