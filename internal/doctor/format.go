package doctor

import (
	"fmt"
	"io"
)

// FormatReport writes one line per result (✓ pass, ✗ error, ! warning),
// each failure followed by its suggestion, then a summary line.
func FormatReport(w io.Writer, report DiagnosticReport) {
	for _, r := range report.Results {
		switch {
		case r.Passed:
			fmt.Fprintf(w, "✓ %s: OK\n", r.Name)
		case r.Severity == SeverityWarning:
			fmt.Fprintf(w, "! %s: %s\n", r.Name, r.Details)
		default:
			fmt.Fprintf(w, "✗ %s: %s\n", r.Name, r.Details)
		}
		if !r.Passed && r.Suggestion != "" {
			fmt.Fprintf(w, "  → %s\n", r.Suggestion)
		}
	}

	if len(report.Results) > 0 {
		fmt.Fprint(w, "\n")
	}

	errs, warns := report.ErrorCount(), report.WarningCount()
	switch {
	case errs == 0 && warns == 0:
		fmt.Fprint(w, "No issues found.\n")
	default:
		fmt.Fprintf(w, "%s, %s.\n", plural(errs, "error"), plural(warns, "warning"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// ExitCode returns 1 when the report has an error-severity failure and 0
// otherwise; warnings never affect the exit code.
func ExitCode(report DiagnosticReport) int {
	if report.HasErrors() {
		return 1
	}
	return 0
}
