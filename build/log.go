package build

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/btcsuite/btclog/v2"
)

// logLevels are the level names accepted by the debuglevel option.
var logLevels = []string{
	"trace", "debug", "info", "warn", "error", "critical", "off",
}

// LogWriter receives the output of all subsystem loggers. Its Write method
// depends on the stdlog and nolog build tags.
type LogWriter struct {
	// Rotator is the log file written to by default builds. It may be nil,
	// in which case only stdout is written.
	Rotator io.Writer
}

// NewSubLogger returns the logger of a subsystem. Loggers are taken from
// genSubLogger, which normally hands out loggers of the SubLoggerManager. A
// nil genSubLogger, as used by the package init functions, disables logging
// until the daemon installs its loggers.
//
// Development builds with the stdlog tag log straight to stdout instead, so
// unit tests show their output.
func NewSubLogger(subsystem string,
	genSubLogger func(string) btclog.Logger) btclog.Logger {

	switch {
	case Deployment == Development && LoggingType == LogTypeStdOut:
		handler := btclog.NewDefaultHandler(os.Stdout)
		logger := btclog.NewSLogger(handler.SubSystem(subsystem))

		level, _ := btclog.LevelFromString(LogLevel)
		logger.SetLevel(level)

		return logger

	case genSubLogger == nil, LoggingType == LogTypeNone:
		return btclog.Disabled

	default:
		return genSubLogger(subsystem)
	}
}

// SubLoggers maps subsystem names to their loggers.
type SubLoggers map[string]btclog.Logger

// LeveledSubLogger is a set of subsystem loggers whose levels can be changed
// by subsystem name.
type LeveledSubLogger interface {
	// SubLoggers returns the registered loggers by subsystem.
	SubLoggers() SubLoggers

	// SupportedSubsystems returns the sorted subsystem names.
	SupportedSubsystems() []string

	// SetLogLevel sets the level of a single subsystem.
	SetLogLevel(subsystemID string, logLevel string)

	// SetLogLevels sets the level of every subsystem.
	SetLogLevels(logLevel string)
}

// ParseAndSetDebugLevels applies a debuglevel option value to the loggers.
// The value is an optional global level followed by comma separated
// <subsystem>=<level> pairs, for example "info,GARD=debug,CKPT=trace".
func ParseAndSetDebugLevels(level string, logger LeveledSubLogger) error {
	entries := strings.Split(level, ",")

	if !strings.Contains(entries[0], "=") {
		if err := checkLogLevel(entries[0]); err != nil {
			return err
		}
		logger.SetLogLevels(entries[0])

		entries = entries[1:]
	}

	subLoggers := logger.SubLoggers()
	for _, entry := range entries {
		subsystem, subLevel, ok := strings.Cut(entry, "=")
		if !ok || strings.Contains(subLevel, "=") {
			return fmt.Errorf("invalid subsystem level %q, use "+
				"<subsystem>=<level>", entry)
		}

		if _, ok := subLoggers[subsystem]; !ok {
			return fmt.Errorf("unknown subsystem %q, supported "+
				"subsystems are %v", subsystem,
				logger.SupportedSubsystems())
		}

		if err := checkLogLevel(subLevel); err != nil {
			return err
		}
		logger.SetLogLevel(subsystem, subLevel)
	}

	return nil
}

// checkLogLevel returns an error if level is not one of logLevels.
func checkLogLevel(level string) error {
	if slices.Contains(logLevels, level) {
		return nil
	}

	return fmt.Errorf("invalid log level %q, expected one of %v", level,
		logLevels)
}
