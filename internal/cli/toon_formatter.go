package cli

import (
	"fmt"
	"io"
	"iter"
	"slices"

	toon "github.com/toon-format/toon-go"

	"github.com/leeovery/wtasks/internal/cache"
	"github.com/leeovery/wtasks/internal/task"
)

// ToonFormatter renders output in TOON (Token-Oriented Object Notation),
// the compact tabular format used when stdout is not a terminal.
type ToonFormatter struct{}

// FormatTaskList renders tasks[N]{position,name,done}: followed by one
// indented row per task. An empty list renders the header with N=0.
func (f *ToonFormatter) FormatTaskList(w io.Writer, lines iter.Seq[task.Line], quiet bool) error {
	rows := slices.Collect(lines)

	if quiet {
		for _, r := range rows {
			if _, err := fmt.Fprintln(w, r.Name); err != nil {
				return err
			}
		}
		return nil
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "tasks[0]{position,name,done}:")
		return err
	}

	objects := make([]toon.Object, len(rows))
	for i, r := range rows {
		objects[i] = toon.NewObject(
			toon.Field{Key: "position", Value: r.Position},
			toon.Field{Key: "name", Value: r.Name},
			toon.Field{Key: "done", Value: r.Done},
		)
	}

	doc := toon.NewObject(
		toon.Field{Key: "tasks", Value: objects},
	)
	result, err := toon.MarshalString(doc)
	if err != nil {
		return fmt.Errorf("toon marshal error: %w", err)
	}
	_, err = fmt.Fprintln(w, result)
	return err
}

// FormatStats renders a stats object with total, done and open.
func (f *ToonFormatter) FormatStats(w io.Writer, stats cache.Stats) error {
	doc := toon.NewObject(
		toon.Field{Key: "stats", Value: toon.NewObject(
			toon.Field{Key: "total", Value: stats.Total},
			toon.Field{Key: "done", Value: stats.Done},
			toon.Field{Key: "open", Value: stats.Open},
		)},
	)
	result, err := toon.MarshalString(doc)
	if err != nil {
		return fmt.Errorf("toon marshal error: %w", err)
	}
	_, err = fmt.Fprintln(w, result)
	return err
}
