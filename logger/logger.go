// Package logger exposes the process-wide zerolog logger shared by the
// compiler and the solver.
//
// Output goes to a console writer on stdout. Test binaries get a no-op
// logger so assertion output stays readable; build with the debug tag to
// see compile and solve logs while testing.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/templar-zk/templar/debug"
)

var logger zerolog.Logger

func init() {
	w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(w).With().Timestamp().Logger()

	if inTestBinary() && !debug.Debug {
		logger = zerolog.Nop()
	}
}

func inTestBinary() bool {
	return strings.HasSuffix(os.Args[0], ".test")
}

// SetOutput redirects the global logger.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set replaces the global logger entirely.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable silences all logging.
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the shared logger. Components derive sub-loggers from it
// rather than constructing their own.
func Logger() zerolog.Logger {
	return logger
}
