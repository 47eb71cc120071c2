// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
//
// Every logger writes to stderr. Stdout is reserved for match output and IPC
// responses.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed charm log that follows the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// LevelForVerbosity maps the -v flag to a log level: 0 shows warnings and
// errors, 1 adds info and 2 or more adds debug output.
func LevelForVerbosity(v int) log.Level {
	switch {
	case v <= 0:
		return log.WarnLevel
	case v == 1:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

// Setup configures the global logger for a binary from its verbosity.
func Setup(verbosity int) {
	level := LevelForVerbosity(verbosity)
	log.SetDefault(NewWithConfig("", level, false, level <= log.DebugLevel, log.TextFormatter))
}
