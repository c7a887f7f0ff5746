// Package cli implements the wtasks command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/leeovery/wtasks/internal/config"
	"github.com/leeovery/wtasks/internal/storage"
	"github.com/leeovery/wtasks/internal/task"
)

// Version is the wtasks version, overridden at build time with -ldflags.
var Version = "dev"

// GlobalOpts holds parsed persistent flags.
type GlobalOpts struct {
	File    string
	Quiet   bool
	Verbose bool
	Toon    bool
	Pretty  bool
	JSON    bool
}

// actionOpts holds the root command's mutually exclusive action flags.
type actionOpts struct {
	name   string
	list   bool
	done   int
	remove int
}

// App is the wtasks CLI application.
type App struct {
	stdout io.Writer
	stderr io.Writer
	opts   GlobalOpts

	workDir string
	cfg     *config.Config
	logger  *log.Logger
	fc      FormatConfig
}

// NewApp creates a new CLI application with the given output writers.
func NewApp(stdout, stderr io.Writer) *App {
	return &App{
		stdout: stdout,
		stderr: stderr,
	}
}

// exitError carries a non-zero exit code out of a command that has already
// reported its outcome.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Run parses arguments and runs the requested action.
// args[0] is the program name; workDir resolves relative paths.
// Returns the exit code (0 for success, 1 for error).
func (a *App) Run(args []string, workDir string) int {
	a.workDir = workDir

	root := a.rootCommand()
	root.SetArgs(args[1:])
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(a.stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func (a *App) rootCommand() *cobra.Command {
	var act actionOpts

	root := &cobra.Command{
		Use:   "wtasks",
		Short: "A small task list kept in a JSON file",
		Long: `wtasks keeps an ordered task list in tasks.json.

Each run applies at most one action and then prints the list.
Positions given to --done and --remove are 1-based, as shown in the listing.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTasks(cmd, act)
		},
	}

	f := root.Flags()
	f.StringVarP(&act.name, "name", "n", "", "add a task with this name")
	f.BoolVarP(&act.list, "list", "l", false, "only list tasks")
	f.IntVar(&act.done, "done", 0, "mark the task at this position done")
	f.IntVarP(&act.remove, "remove", "r", 0, "remove the task at this position")
	root.MarkFlagsMutuallyExclusive("name", "list", "done", "remove")

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.File, "file", "", "task file (default tasks.json)")
	pf.BoolVarP(&a.opts.Quiet, "quiet", "q", false, "print task names only")
	pf.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "log debug detail to stderr")
	pf.BoolVar(&a.opts.Toon, "toon", false, "force TOON output")
	pf.BoolVar(&a.opts.Pretty, "pretty", false, "force human-readable output")
	pf.BoolVar(&a.opts.JSON, "json", false, "force JSON output")

	root.AddCommand(
		a.statsCommand(),
		a.doctorCommand(),
		a.versionCommand(),
	)
	return root
}

// setup resolves configuration, logging and output format before any
// command runs. Flags override config file and environment.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.workDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("file") {
		cfg.SetFile(a.workDir, a.opts.File)
	}
	a.cfg = cfg

	logger, err := newLogger(a.stderr, cfg.LogLevel, a.opts.Verbose)
	if err != nil {
		return err
	}
	a.logger = logger

	format, err := ResolveFormat(a.opts.Toon, a.opts.Pretty, a.opts.JSON, cfg.Format, DetectTTY(a.stdout))
	if err != nil {
		return err
	}
	a.fc = FormatConfig{Format: format, Quiet: a.opts.Quiet}

	a.logger.Debug("resolved configuration", "file", cfg.File, "cache", cfg.CacheFile, "format", format)
	return nil
}

// openFile returns the task file bound to the configured path with debug
// tracing wired in.
func (a *App) openFile() *storage.File {
	f := storage.NewFile(a.cfg.File)
	f.LogFunc = a.logger.Debugf
	return f
}

// runTasks loads the list, applies at most one action, saves when the list
// changed and prints the result.
func (a *App) runTasks(cmd *cobra.Command, act actionOpts) error {
	file := a.openFile()
	l, _ := file.Load()

	flags := cmd.Flags()
	mutated := false
	switch {
	case flags.Changed("name"):
		l.Add(act.name)
		mutated = true
	case flags.Changed("done"):
		mutated = a.applyIndexed(l.MarkDone, act.done)
	case flags.Changed("remove"):
		mutated = a.applyIndexed(l.Remove, act.remove)
	}

	if mutated {
		if err := file.Save(l); err != nil {
			a.logger.Warn("changes were not saved", "err", err)
		}
	}

	return a.fc.Formatter().FormatTaskList(a.stdout, l.Lines(), a.fc.Quiet)
}

// applyIndexed converts a 1-based position to a 0-based index and applies op.
// An out-of-range position is a warning, never an error.
func (a *App) applyIndexed(op func(int) error, position int) bool {
	if err := op(position - 1); err != nil {
		if errors.Is(err, task.ErrNoTask) {
			a.logger.Warnf("No task with index %d.", position)
			return false
		}
		a.logger.Warn("action failed", "err", err)
		return false
	}
	return true
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wtasks version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "wtasks version %s\n", Version)
			return err
		},
	}
}
