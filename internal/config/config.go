// Package config resolves wtasks settings from defaults, an optional
// .wtasks.toml in the working directory, and WTASKS_* environment variables.
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultFile     = "tasks.json"
	DefaultLogLevel = "info"
	FileName        = ".wtasks.toml"
	cacheSuffix     = ".cache.db"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	// File is the task file path. Relative paths resolve against the
	// working directory.
	File string `toml:"file"`
	// CacheFile is the SQLite summary cache path. Empty means File + ".cache.db".
	CacheFile string `toml:"cache_file"`
	// Format is the output format: "toon", "pretty", "json" or empty for auto.
	Format string `toml:"format"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	cacheExplicit bool
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		File:     DefaultFile,
		LogLevel: DefaultLogLevel,
	}
}

// Load builds the configuration for workDir: defaults, then .wtasks.toml if
// present, then environment overrides. Paths are resolved against workDir.
func Load(workDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workDir, FileName)
	if err := loadConfigFile(cfg, path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Resolve(workDir)
	return cfg, nil
}

// loadConfigFile decodes the TOML file at path into cfg. Keys the file does
// not set keep their current values. Unknown keys are rejected.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("WTASKS_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("WTASKS_CACHE_FILE"); v != "" {
		cfg.CacheFile = v
	}
	if v := os.Getenv("WTASKS_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("WTASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case "", "toon", "pretty", "json":
	default:
		return fmt.Errorf("invalid format %q: must be toon, pretty or json", c.Format)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}

	if strings.TrimSpace(c.File) == "" {
		return fmt.Errorf("file must not be empty")
	}
	return nil
}

// Resolve makes File and CacheFile absolute against workDir and fills in the
// default cache path.
func (c *Config) Resolve(workDir string) {
	c.File = resolvePath(workDir, c.File)
	if c.CacheFile == "" {
		c.CacheFile = c.File + cacheSuffix
	} else {
		c.cacheExplicit = true
		c.CacheFile = resolvePath(workDir, c.CacheFile)
	}
}

// SetFile points the config at another task file. A derived cache path
// follows the new file; an explicitly configured one is kept.
func (c *Config) SetFile(workDir, path string) {
	c.File = resolvePath(workDir, path)
	if !c.cacheExplicit {
		c.CacheFile = c.File + cacheSuffix
	}
}

func resolvePath(workDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}
