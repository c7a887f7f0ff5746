// Package cache provides a SQLite summary cache for the task file. It is
// rebuilt whenever the SHA256 of the task file changes and is always
// expendable: the JSON file remains the source of truth.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/leeovery/wtasks/internal/task"

	_ "github.com/mattn/go-sqlite3"
)

// HashKey is the metadata key holding the hash of the mirrored task file.
const HashKey = "file_hash"

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
  position INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  done INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT
);

CREATE INDEX IF NOT EXISTS idx_tasks_done ON tasks(done);
`

// Stats holds task counts computed by the cache.
type Stats struct {
	Total int
	Done  int
	Open  int
}

// Cache wraps a SQLite database mirroring the task file.
type Cache struct {
	db   *sql.DB
	path string
}

// New opens or creates a SQLite cache database at the given path and
// initializes the schema if not present.
func New(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Rebuild clears the cache and repopulates it from tasks within a single
// transaction, storing the hash of raw alongside.
func (c *Cache) Rebuild(tasks []task.Task, raw []byte) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning rebuild transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("clearing metadata: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO tasks (position, name, done) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.Exec(i+1, t.Name, t.Done); err != nil {
			return fmt.Errorf("inserting task %d: %w", i+1, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)`, HashKey, ComputeHash(raw)); err != nil {
		return fmt.Errorf("storing file hash: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild transaction: %w", err)
	}
	return nil
}

// IsFresh compares the hash of raw with the stored hash.
func (c *Cache) IsFresh(raw []byte) (bool, error) {
	var stored string
	err := c.db.QueryRow("SELECT value FROM metadata WHERE key = ?", HashKey).Scan(&stored)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("querying file hash: %w", err)
	}
	return stored == ComputeHash(raw), nil
}

// Stats counts total, done and open tasks.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	err := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(done), 0) FROM tasks`).Scan(&s.Total, &s.Done)
	if err != nil {
		return Stats{}, fmt.Errorf("querying task counts: %w", err)
	}
	s.Open = s.Total - s.Done
	return s, nil
}

// EnsureFresh opens the cache at dbPath, checks freshness against raw, and
// rebuilds from tasks if stale or missing. A corrupt cache file is deleted,
// recreated and rebuilt.
func EnsureFresh(dbPath string, tasks []task.Task, raw []byte) (*Cache, error) {
	c, err := New(dbPath)
	if err != nil {
		log.Warn("cache corrupt or unreadable, recreating", "path", dbPath, "err", err)
		c, err = recreate(dbPath)
		if err != nil {
			return nil, err
		}
	}

	fresh, err := c.IsFresh(raw)
	if err != nil {
		log.Warn("cache query failed, recreating", "path", dbPath, "err", err)
		c.Close()
		c, err = recreate(dbPath)
		if err != nil {
			return nil, err
		}
		fresh = false
	}

	if !fresh {
		if err := c.Rebuild(tasks, raw); err != nil {
			c.Close()
			return nil, fmt.Errorf("rebuilding cache: %w", err)
		}
	}

	return c, nil
}

// recreate removes the cache file at dbPath and creates a fresh database.
func recreate(dbPath string) (*Cache, error) {
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing corrupt cache: %w", err)
	}
	c, err := New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("recreating cache: %w", err)
	}
	return c, nil
}

// ComputeHash returns the hex-encoded SHA256 hash of the given data.
func ComputeHash(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}
