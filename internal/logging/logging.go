// Package logging configures the structured logger used throughout
// ped. Log output never touches stdout/stderr while the alternate
// screen is active, so it is always directed at a file.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	once    sync.Once
	logger  *log.Logger
	closers []io.Closer
)

// Init opens path (creating parent dirs as needed by the caller) and
// configures the package logger to write to it at the given level.
// Safe to call once; subsequent calls are no-ops.
func Init(path string, level log.Level) error {
	var err error
	once.Do(func() {
		var w io.Writer = io.Discard
		if path != "" {
			f, ferr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if ferr != nil {
				err = ferr
				return
			}
			w = f
			closers = append(closers, f)
		}
		logger = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			ReportCaller:    false,
			Level:           level,
			Prefix:          "ped",
		})
	})
	return err
}

// Log returns the package logger, defaulting to a discard logger if
// Init was never called (e.g. in unit tests).
func Log() *log.Logger {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return logger
}

// Close flushes and closes any open log files. Called from the CLI's
// deferred teardown in runEditor.
func Close() {
	for _, c := range closers {
		_ = c.Close()
	}
}
