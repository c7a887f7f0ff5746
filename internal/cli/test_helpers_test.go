package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leeovery/wtasks/internal/storage"
	"github.com/leeovery/wtasks/internal/task"
)

// runApp runs wtasks in dir with the given arguments and returns stdout,
// stderr and the exit code. WTASKS_* variables are cleared first.
func runApp(t *testing.T, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	for _, k := range []string{"WTASKS_FILE", "WTASKS_CACHE_FILE", "WTASKS_FORMAT", "WTASKS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	var out, errOut bytes.Buffer
	app := NewApp(&out, &errOut)
	code = app.Run(append([]string{"wtasks"}, args...), dir)
	return out.String(), errOut.String(), code
}

// writeTaskFile writes raw content to dir/tasks.json.
func writeTaskFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, storage.DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write task file: %v", err)
	}
	return path
}

// readTasks loads dir/tasks.json and fails the test unless it parses.
func readTasks(t *testing.T, dir string) []task.Task {
	t.Helper()
	l, res := storage.Load(filepath.Join(dir, storage.DefaultFileName))
	if res.Outcome != storage.OutcomeLoaded {
		t.Fatalf("task file outcome = %s (%v), want loaded", res.Outcome, res.Err)
	}
	return l.Tasks()
}

// seedTasks saves tasks to dir/tasks.json through the storage package.
func seedTasks(t *testing.T, dir string, tasks ...task.Task) {
	t.Helper()
	if err := storage.Save(task.NewList(tasks...), filepath.Join(dir, storage.DefaultFileName)); err != nil {
		t.Fatalf("failed to seed tasks: %v", err)
	}
}
