package task

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNoTask is wrapped by IndexError when an index does not resolve to a task.
var ErrNoTask = errors.New("no such task")

// IndexError reports a 0-based index that is out of range for a list of
// Len tasks.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for %d tasks", e.Index, e.Len)
}

// Unwrap lets errors.Is match ErrNoTask.
func (e *IndexError) Unwrap() error {
	return ErrNoTask
}

// Line is one rendered row of a listing.
type Line struct {
	Position int // 1-based
	Glyph    string
	Name     string
	Done     bool
}

// String renders the line as "[x] 1: Buy milk".
func (l Line) String() string {
	return fmt.Sprintf("%s %d: %s", l.Glyph, l.Position, l.Name)
}

// List is an ordered collection of task entries addressed by 0-based index.
//
// Each entry carries its own lock. The slice itself is not synchronized:
// Add and Remove change length and order and must only be called by the
// goroutine that owns the list.
type List struct {
	entries []*Entry
}

// NewList creates a list holding the given tasks in order.
func NewList(tasks ...Task) *List {
	l := &List{entries: make([]*Entry, 0, len(tasks))}
	for _, t := range tasks {
		l.entries = append(l.entries, NewEntry(t))
	}
	return l
}

// Len returns the number of tasks in the list.
func (l *List) Len() int {
	return len(l.entries)
}

// At returns a snapshot of the task at index i.
func (l *List) At(i int) (Task, error) {
	if i < 0 || i >= len(l.entries) {
		return Task{}, &IndexError{Index: i, Len: len(l.entries)}
	}
	return l.entries[i].Snapshot(), nil
}

// Add appends a new open task. Existing indexes are unaffected.
func (l *List) Add(name string) {
	l.entries = append(l.entries, NewEntry(Task{Name: name}))
}

// Remove deletes the task at index i, shifting every later task one position
// earlier. An out-of-range index leaves the list unchanged and returns an
// *IndexError.
func (l *List) Remove(i int) error {
	if i < 0 || i >= len(l.entries) {
		return &IndexError{Index: i, Len: len(l.entries)}
	}
	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1] = nil
	l.entries = l.entries[:len(l.entries)-1]
	return nil
}

// MarkDone sets the done flag of the task at index i. An out-of-range index
// leaves every task unchanged and returns an *IndexError.
func (l *List) MarkDone(i int) error {
	if i < 0 || i >= len(l.entries) {
		return &IndexError{Index: i, Len: len(l.entries)}
	}
	l.entries[i].MarkDone()
	return nil
}

// Tasks returns a snapshot of every task, each copied under its own lock.
// The result is never nil.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Snapshot()
	}
	return out
}

// Lines yields one Line per task in current order. The sequence is lazy and
// may be ranged over repeatedly; each pass reflects the list as it is then.
func (l *List) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for i := 0; i < len(l.entries); i++ {
			t := l.entries[i].Snapshot()
			line := Line{
				Position: i + 1,
				Glyph:    t.Glyph(),
				Name:     t.Name,
				Done:     t.Done,
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Counts returns the total number of tasks and how many are done.
func (l *List) Counts() (total, done int) {
	for _, e := range l.entries {
		if e.Snapshot().Done {
			done++
		}
	}
	return len(l.entries), done
}
