// Package storage maps a task list to and from its JSON file on disk.
// Loading is lenient: a missing or corrupt file yields an empty list, with
// the reason reported through a LoadResult.
package storage

import (
	"fmt"

	"github.com/leeovery/wtasks/internal/task"
)

// DefaultFileName is the conventional task file name, resolved against the
// working directory.
const DefaultFileName = "tasks.json"

// File binds Load and Save to one path and traces both through an optional
// logging function.
type File struct {
	path string

	// LogFunc is an optional verbose logging function injected by the CLI.
	// When nil, no logging occurs.
	LogFunc func(format string, args ...interface{})
}

// NewFile creates a File for the task file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the task file path.
func (f *File) Path() string {
	return f.path
}

// vlog writes a verbose log message if LogFunc is set.
func (f *File) vlog(format string, args ...interface{}) {
	if f.LogFunc != nil {
		f.LogFunc(format, args...)
	}
}

// Load reads the task file, falling back to an empty list when it is missing
// or unusable.
func (f *File) Load() (*task.List, LoadResult) {
	f.vlog("reading tasks from %s", f.path)
	l, res := Load(f.path)
	switch res.Outcome {
	case OutcomeLoaded:
		f.vlog("loaded %d tasks", l.Len())
	case OutcomeNotFound:
		f.vlog("no task file yet, starting empty")
	default:
		f.vlog("task file %s (%v), starting empty", res.Outcome, res.Err)
	}
	return l, res
}

// Save writes l to the task file atomically.
func (f *File) Save(l *task.List) error {
	f.vlog("atomic write to %s", f.path)
	if err := Save(l, f.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", f.path, err)
	}
	f.vlog("wrote %d tasks", l.Len())
	return nil
}
