// Package task defines the task record and the ordered, index-addressed task
// list that the wtasks CLI mutates between loads and saves.
package task

import "sync"

// Glyphs rendered for a task's completion state.
const (
	GlyphDone = "[x]"
	GlyphOpen = "[ ]"
)

// Task is a named unit of work with a completion flag.
// Any name is accepted, including the empty string.
type Task struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// Glyph returns "[x]" for a done task and "[ ]" otherwise.
func (t Task) Glyph() string {
	if t.Done {
		return GlyphDone
	}
	return GlyphOpen
}

// Entry holds one task behind its own mutex so that reading a task's status
// never races with another goroutine marking it done.
type Entry struct {
	mu   sync.Mutex
	task Task
}

// NewEntry wraps t in a lockable entry.
func NewEntry(t Task) *Entry {
	return &Entry{task: t}
}

// Snapshot returns a copy of the task taken under the entry's lock.
func (e *Entry) Snapshot() Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.task
}

// MarkDone sets the done flag. Marking an already-done task is a no-op.
func (e *Entry) MarkDone() {
	e.mu.Lock()
	e.task.Done = true
	e.mu.Unlock()
}
