package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/leeovery/wtasks/internal/cache"
	"github.com/leeovery/wtasks/internal/task"
)

// JSONFormatter renders 2-space indented JSON with snake_case keys.
type JSONFormatter struct{}

// jsonListRow is the JSON representation of a task in list output.
type jsonListRow struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Done     bool   `json:"done"`
}

// jsonStats is the JSON representation of task statistics.
type jsonStats struct {
	Total int `json:"total"`
	Done  int `json:"done"`
	Open  int `json:"open"`
}

// FormatTaskList renders tasks as a JSON array, or an array of names when
// quiet. Empty lists produce [] (never null).
func (f *JSONFormatter) FormatTaskList(w io.Writer, lines iter.Seq[task.Line], quiet bool) error {
	if quiet {
		names := []string{}
		for l := range lines {
			names = append(names, l.Name)
		}
		return writeJSON(w, names)
	}

	rows := []jsonListRow{}
	for l := range lines {
		rows = append(rows, jsonListRow{Position: l.Position, Name: l.Name, Done: l.Done})
	}
	return writeJSON(w, rows)
}

// FormatStats renders the counts as a JSON object.
func (f *JSONFormatter) FormatStats(w io.Writer, stats cache.Stats) error {
	return writeJSON(w, jsonStats{Total: stats.Total, Done: stats.Done, Open: stats.Open})
}

// writeJSON marshals v with 2-space indentation and a trailing newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
