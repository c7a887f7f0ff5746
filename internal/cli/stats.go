package cli

import (
	"github.com/spf13/cobra"

	"github.com/leeovery/wtasks/internal/cache"
	"github.com/leeovery/wtasks/internal/storage"
	"github.com/leeovery/wtasks/internal/task"
)

func (a *App) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total, done and open task counts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runStats()
		},
	}
}

// runStats counts tasks through the SQLite summary cache, rebuilding it when
// the task file changed. Without a loaded file, or when the cache fails, the
// counts come from memory.
func (a *App) runStats() error {
	l, res := a.openFile().Load()

	stats := memoryStats(l)
	if res.Outcome == storage.OutcomeLoaded {
		if s, err := a.cachedStats(l, res.Raw); err != nil {
			a.logger.Warn("summary cache unavailable, counting in memory", "err", err)
		} else {
			stats = s
		}
	}

	return a.fc.Formatter().FormatStats(a.stdout, stats)
}

func (a *App) cachedStats(l *task.List, raw []byte) (cache.Stats, error) {
	c, err := cache.EnsureFresh(a.cfg.CacheFile, l.Tasks(), raw)
	if err != nil {
		return cache.Stats{}, err
	}
	defer c.Close()

	a.logger.Debug("reading counts from cache", "path", c.Path())
	return c.Stats()
}

func memoryStats(l *task.List) cache.Stats {
	total, done := l.Counts()
	return cache.Stats{Total: total, Done: done, Open: total - done}
}
