package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// newLogger builds the stderr logger for one invocation. Level comes from
// the configured log level; verbose forces debug. The logger also becomes
// the package default so library code logging through charmbracelet/log
// writes to the same place.
func newLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "wtasks",
		ReportTimestamp: false,
		Level:           lvl,
	})
	log.SetDefault(logger)
	return logger, nil
}
