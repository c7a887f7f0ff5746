package cli

import (
	"fmt"
	"io"
	"iter"

	"github.com/leeovery/wtasks/internal/cache"
	"github.com/leeovery/wtasks/internal/task"
)

// PrettyFormatter renders human-readable output: a "Task List:" header
// followed by one "[x] 1: name" line per task.
type PrettyFormatter struct{}

// FormatTaskList writes the header and one line per task. An empty list
// prints "No tasks found." under the header.
func (f *PrettyFormatter) FormatTaskList(w io.Writer, lines iter.Seq[task.Line], quiet bool) error {
	if quiet {
		for l := range lines {
			if _, err := fmt.Fprintln(w, l.Name); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintln(w, "Task List:"); err != nil {
		return err
	}
	empty := true
	for l := range lines {
		empty = false
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return err
		}
	}
	if empty {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}
	return nil
}

// FormatStats writes aligned label/value rows.
func (f *PrettyFormatter) FormatStats(w io.Writer, stats cache.Stats) error {
	_, err := fmt.Fprintf(w, "%-7s%d\n%-7s%d\n%-7s%d\n",
		"Total:", stats.Total,
		"Done:", stats.Done,
		"Open:", stats.Open,
	)
	return err
}
