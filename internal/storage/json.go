package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/leeovery/wtasks/internal/task"
)

// Outcome classifies what Load found at the task file path.
type Outcome int

const (
	// OutcomeLoaded means the file was read and parsed.
	OutcomeLoaded Outcome = iota
	// OutcomeNotFound means no file exists yet.
	OutcomeNotFound
	// OutcomeUnreadable means the file exists but could not be read.
	OutcomeUnreadable
	// OutcomeInvalid means the file was read but is not a valid task array.
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeNotFound:
		return "not found"
	case OutcomeUnreadable:
		return "unreadable"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// LoadResult describes the outcome of reading a task file. Every outcome
// other than OutcomeLoaded resolves to an empty task list; the result keeps
// the distinction available for diagnostics.
type LoadResult struct {
	Outcome Outcome
	// Err is the underlying read or parse error. Nil for OutcomeLoaded.
	Err error
	// Raw holds the bytes read from disk, if any.
	Raw []byte
	// Tasks holds the parsed records for OutcomeLoaded.
	Tasks []task.Task
}

// Fallback reports whether the result resolved to an empty list because the
// file was missing or unusable.
func (r LoadResult) Fallback() bool {
	return r.Outcome != OutcomeLoaded
}

// Save writes every task in l to path as a pretty-printed JSON array.
// Each task is snapshotted under its own lock. The file is replaced with an
// atomic write (temp file + fsync + rename) so readers never see a torn file.
func Save(l *task.List, path string) error {
	data, err := Marshal(l.Tasks())
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// Marshal serializes tasks as a two-space indented JSON array followed by a
// newline. A nil or empty slice produces "[]".
func Marshal(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Load reads the task file at path. A missing, unreadable or invalid file
// yields an empty list; the LoadResult says which. No partial recovery is
// attempted: one malformed record invalidates the whole file.
func Load(path string) (*task.List, LoadResult) {
	res := Inspect(path)
	if res.Outcome != OutcomeLoaded {
		return task.NewList(), res
	}
	return task.NewList(res.Tasks...), res
}

// Inspect reads and classifies the task file at path without building a list.
func Inspect(path string) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Outcome: OutcomeNotFound, Err: err}
		}
		return LoadResult{Outcome: OutcomeUnreadable, Err: fmt.Errorf("failed to read tasks file: %w", err)}
	}

	tasks, err := Parse(data)
	if err != nil {
		return LoadResult{Outcome: OutcomeInvalid, Err: err, Raw: data}
	}
	return LoadResult{Outcome: OutcomeLoaded, Raw: data, Tasks: tasks}
}

// Parse strictly decodes a JSON array of {"name", "done"} objects.
// The input must be valid UTF-8 holding exactly one JSON value with no
// repeated object keys. The shape is then validated against the task file
// schema, so missing fields, wrong types and unknown fields are all rejected.
func Parse(data []byte) ([]task.Task, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("failed to parse tasks file: invalid UTF-8")
	}
	if !json.Valid(data) {
		return nil, errors.New("failed to parse tasks file: invalid JSON")
	}
	if err := checkDuplicateKeys(data); err != nil {
		return nil, fmt.Errorf("failed to parse tasks file: %w", err)
	}
	if err := validateShape(data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var tasks []task.Task
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks file: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse tasks file: unexpected data after array")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// checkDuplicateKeys walks the token stream and fails on the first object
// that repeats a key. data must already be valid JSON.
func checkDuplicateKeys(data []byte) error {
	type frame struct {
		object    bool
		expectKey bool
		keys      map[string]bool
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []*frame

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var top *frame
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}

		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				if top != nil && top.object {
					top.expectKey = true
				}
				stack = append(stack, &frame{object: d == '{', expectKey: d == '{', keys: map[string]bool{}})
			default:
				stack = stack[:len(stack)-1]
			}
			continue
		}

		if top == nil || !top.object {
			continue
		}
		if top.expectKey {
			key, _ := tok.(string)
			if top.keys[key] {
				return fmt.Errorf("duplicate key %q", key)
			}
			top.keys[key] = true
			top.expectKey = false
			continue
		}
		top.expectKey = true
	}
}

// writeAtomic writes data to a temp file in path's directory, fsyncs it and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up temp file on error
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write tasks: %w", err)
	}

	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set temp file mode: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
