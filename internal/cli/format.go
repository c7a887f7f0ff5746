package cli

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/leeovery/wtasks/internal/cache"
	"github.com/leeovery/wtasks/internal/task"
)

// Format represents the output format type.
type Format string

// Format constants for output selection.
const (
	FormatToon   Format = "toon"
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

// FormatConfig holds output configuration passed to handlers.
type FormatConfig struct {
	Format Format
	Quiet  bool
}

// Formatter renders command output in one format.
type Formatter interface {
	// FormatTaskList renders the task listing. Quiet output lists names only.
	FormatTaskList(w io.Writer, lines iter.Seq[task.Line], quiet bool) error
	// FormatStats renders task counts.
	FormatStats(w io.Writer, stats cache.Stats) error
}

// DetectTTY checks if the given writer is a terminal (TTY).
// Returns false if writer is not an *os.File, if Stat() fails,
// or if the file is not a character device.
func DetectTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// ResolveFormat determines the output format. At most one flag may be set;
// a flag beats the configured format, which beats TTY detection (pretty for
// a terminal, toon otherwise).
func ResolveFormat(toonFlag, prettyFlag, jsonFlag bool, configured string, isTTY bool) (Format, error) {
	count := 0
	for _, set := range []bool{toonFlag, prettyFlag, jsonFlag} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", errors.New("cannot specify multiple format flags (--toon, --pretty, --json)")
	}

	switch {
	case toonFlag:
		return FormatToon, nil
	case prettyFlag:
		return FormatPretty, nil
	case jsonFlag:
		return FormatJSON, nil
	}

	switch Format(configured) {
	case FormatToon, FormatPretty, FormatJSON:
		return Format(configured), nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q", configured)
	}

	if isTTY {
		return FormatPretty, nil
	}
	return FormatToon, nil
}

// Formatter returns the Formatter for the configured format.
func (c FormatConfig) Formatter() Formatter {
	switch c.Format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatPretty:
		return &PrettyFormatter{}
	default:
		return &ToonFormatter{}
	}
}
