package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/leeovery/wtasks/internal/doctor"
)

// RunDoctor runs every default check against paths, writes the report to
// stdout and returns the exit code. Doctor is read-only and never modifies
// data.
func RunDoctor(ctx context.Context, stdout io.Writer, paths doctor.Paths) int {
	runner := doctor.NewDiagnosticRunner()
	for _, check := range doctor.DefaultChecks() {
		runner.Register(check)
	}
	report := runner.RunAll(ctx, paths)
	doctor.FormatReport(stdout, report)
	return doctor.ExitCode(report)
}

// doctorCommand always prints human-readable text; it bypasses the
// formatter machinery.
func (a *App) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the task file and summary cache for problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths := doctor.Paths{TaskFile: a.cfg.File, CacheFile: a.cfg.CacheFile}
			if code := RunDoctor(cmd.Context(), a.stdout, paths); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}
