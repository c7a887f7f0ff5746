package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leeovery/wtasks/internal/storage"
)

// TaskFileCheck classifies the task file the same way a load does. A missing
// file passes (no tasks yet). An unreadable or invalid file is an error,
// because the next mutating run will replace it with an empty list.
type TaskFileCheck struct{}

// Run executes the task file check.
func (c *TaskFileCheck) Run(_ context.Context, paths Paths) []CheckResult {
	res := storage.Inspect(paths.TaskFile)

	switch res.Outcome {
	case storage.OutcomeLoaded, storage.OutcomeNotFound:
		return []CheckResult{{Name: "Task file", Passed: true}}
	case storage.OutcomeUnreadable:
		return []CheckResult{{
			Name:       "Task file",
			Passed:     false,
			Severity:   SeverityError,
			Details:    fmt.Sprintf("%s is unreadable: %v", paths.TaskFile, res.Err),
			Suggestion: "Check file permissions",
		}}
	default:
		return []CheckResult{{
			Name:       "Task file",
			Passed:     false,
			Severity:   SeverityError,
			Details:    fmt.Sprintf("%s is not a valid task list: %v", paths.TaskFile, res.Err),
			Suggestion: "Fix the file by hand or move it aside; the next change will overwrite it",
		}}
	}
}

// TaskNamesCheck warns about tasks whose names are empty or whitespace-only.
// Such names are accepted but render as blank rows.
type TaskNamesCheck struct{}

// Run executes the task names check. A file that does not load passes here;
// TaskFileCheck reports it.
func (c *TaskNamesCheck) Run(_ context.Context, paths Paths) []CheckResult {
	res := storage.Inspect(paths.TaskFile)
	if res.Outcome != storage.OutcomeLoaded {
		return []CheckResult{{Name: "Task names", Passed: true}}
	}

	var failures []CheckResult
	for i, t := range res.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			failures = append(failures, CheckResult{
				Name:       "Task names",
				Passed:     false,
				Severity:   SeverityWarning,
				Details:    fmt.Sprintf("task %d has a blank name", i+1),
				Suggestion: fmt.Sprintf("Remove it with --remove %d", i+1),
			})
		}
	}
	if len(failures) > 0 {
		return failures
	}
	return []CheckResult{{Name: "Task names", Passed: true}}
}

// TempFilesCheck warns about temp files left beside the task file by an
// interrupted save.
type TempFilesCheck struct{}

// Run executes the temp files check.
func (c *TempFilesCheck) Run(_ context.Context, paths Paths) []CheckResult {
	dir := filepath.Dir(paths.TaskFile)
	pattern := filepath.Join(dir, "."+filepath.Base(paths.TaskFile)+".tmp*")

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return []CheckResult{{
			Name:     "Temp files",
			Passed:   false,
			Severity: SeverityWarning,
			Details:  fmt.Sprintf("could not scan %s: %v", dir, err),
		}}
	}

	var failures []CheckResult
	for _, m := range matches {
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}
		failures = append(failures, CheckResult{
			Name:       "Temp files",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    fmt.Sprintf("leftover temp file %s", filepath.Base(m)),
			Suggestion: "Delete it; it is not read by wtasks",
		})
	}
	if len(failures) > 0 {
		return failures
	}
	return []CheckResult{{Name: "Temp files", Passed: true}}
}
