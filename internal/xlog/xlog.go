// Package xlog builds the logr.Logger used across the engine, so call
// sites stay terse ("xlog.Default()") instead of repeating stdr setup.
package xlog

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

func init() {
	stdr.SetVerbosity(1)
}

// New wraps a standard library logger as a logr.Logger with the given
// name, used as the root of a component's logger tree (e.g.
// xlog.New("uci"), xlog.New("search")).
func New(name string) logr.Logger {
	l := log.New(os.Stderr, "", log.LstdFlags)
	return stdr.New(l).WithName(name)
}

var defaultLogger = New("chesscore")

// Default returns the package-wide root logger, for call sites that
// don't need their own named logger.
func Default() logr.Logger {
	return defaultLogger
}

// SetDefault replaces the package-wide root logger, used by a driver
// that wants a differently configured sink (e.g. higher verbosity
// under "go debug on", or a discard logger in a quiet test run).
func SetDefault(l logr.Logger) {
	defaultLogger = l
}

// Discard returns a logger that drops everything, for tests that don't
// want search/UCI diagnostics on stderr.
func Discard() logr.Logger {
	return logr.Discard()
}
