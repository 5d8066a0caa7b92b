// Package logging configures the process-wide charmbracelet logger and hands
// out per-component loggers carrying a prefix such as "tts" or "flow".
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Setup installs the default logger writing to w at the given level.
func Setup(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	log.SetDefault(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           lvl,
	}))
	return nil
}

// Named returns a logger prefixed with component. Call it after Setup so the
// configured level and writer are inherited.
func Named(component string) *log.Logger {
	return log.Default().WithPrefix(component)
}
