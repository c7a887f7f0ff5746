// Package doctor runs read-only diagnostic checks over the task file and its
// summary cache. Loading is lenient and silently falls back to an empty list;
// doctor is where the reason for a fallback becomes visible.
package doctor

import "context"

// Severity indicates whether a check failure is an error or a warning.
// Errors affect exit code; warnings do not.
type Severity string

const (
	// SeverityError marks a task file that will be discarded on the next load.
	SeverityError Severity = "error"
	// SeverityWarning marks a suspicious but harmless state.
	SeverityWarning Severity = "warning"
)

// Paths locates the files a check inspects.
type Paths struct {
	TaskFile  string
	CacheFile string
}

// CheckResult holds the outcome of a single diagnostic check evaluation.
type CheckResult struct {
	// Name is the check's display label (e.g. "Task file", "Cache").
	Name string
	// Passed indicates whether this check evaluation passed.
	Passed bool
	// Severity indicates whether this result is an error or warning.
	Severity Severity
	// Details is a human-readable description of what is wrong. Empty when passed.
	Details string
	// Suggestion is actionable fix text. Empty when passed or when no suggestion applies.
	Suggestion string
}

// Check is the interface that all diagnostic checks implement.
// A passing check returns exactly one result with Passed true.
type Check interface {
	Run(ctx context.Context, paths Paths) []CheckResult
}

// DiagnosticReport collects all check results from a diagnostic run.
type DiagnosticReport struct {
	Results []CheckResult
}

// HasErrors returns true if any result has Passed false with SeverityError.
func (r *DiagnosticReport) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of failed error-severity results.
func (r *DiagnosticReport) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of failed warning-severity results.
func (r *DiagnosticReport) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *DiagnosticReport) count(sev Severity) int {
	n := 0
	for _, result := range r.Results {
		if !result.Passed && result.Severity == sev {
			n++
		}
	}
	return n
}

// DiagnosticRunner executes an ordered set of checks.
type DiagnosticRunner struct {
	checks []Check
}

// NewDiagnosticRunner creates a DiagnosticRunner with the given checks.
func NewDiagnosticRunner(checks ...Check) *DiagnosticRunner {
	return &DiagnosticRunner{checks: checks}
}

// DefaultChecks returns every built-in check in display order.
func DefaultChecks() []Check {
	return []Check{
		&TaskFileCheck{},
		&TaskNamesCheck{},
		&TempFilesCheck{},
		&CacheStalenessCheck{},
	}
}

// Register appends a check to the runner.
func (d *DiagnosticRunner) Register(check Check) {
	d.checks = append(d.checks, check)
}

// RunAll executes every registered check without short-circuiting and
// collects the results in registration order. A cancelled context stops
// before the next check starts.
func (d *DiagnosticRunner) RunAll(ctx context.Context, paths Paths) DiagnosticReport {
	var results []CheckResult
	for _, check := range d.checks {
		if ctx.Err() != nil {
			break
		}
		results = append(results, check.Run(ctx, paths)...)
	}
	return DiagnosticReport{Results: results}
}
