package doctor

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/leeovery/wtasks/internal/cache"

	_ "github.com/mattn/go-sqlite3"
)

// CacheStalenessCheck verifies that the SQLite summary cache matches the task
// file by comparing SHA256 content hashes. The cache is rebuilt on demand, so
// every failure here is a warning. It never modifies any file.
type CacheStalenessCheck struct{}

// Run executes the cache staleness check.
func (c *CacheStalenessCheck) Run(_ context.Context, paths Paths) []CheckResult {
	raw, err := os.ReadFile(paths.TaskFile)
	if err != nil {
		// Nothing to mirror yet; TaskFileCheck covers unreadable files.
		return []CheckResult{{Name: "Cache", Passed: true}}
	}

	if _, err := os.Stat(paths.CacheFile); os.IsNotExist(err) {
		return []CheckResult{{
			Name:       "Cache",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    "cache has not been built",
			Suggestion: "Run `wtasks stats` to build it",
		}}
	}

	stored, err := queryStoredHash(paths.CacheFile)
	if err != nil || stored != cache.ComputeHash(raw) {
		return []CheckResult{{
			Name:       "Cache",
			Passed:     false,
			Severity:   SeverityWarning,
			Details:    "cache is stale: hash mismatch between task file and cache",
			Suggestion: "Run `wtasks stats` to refresh it",
		}}
	}

	return []CheckResult{{Name: "Cache", Passed: true}}
}

// queryStoredHash opens the cache read-only and returns the stored file hash.
func queryStoredHash(cachePath string) (string, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", cachePath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return "", fmt.Errorf("failed to open cache: %w", err)
	}
	defer db.Close()

	var stored string
	err = db.QueryRow("SELECT value FROM metadata WHERE key = ?", cache.HashKey).Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", cache.HashKey, err)
	}
	return stored, nil
}
