package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backends understood by NewStore.
const (
	BackendNone     = "none"
	BackendJSONL    = "jsonl"
	BackendRotating = "rotating"
	BackendSQLite   = "sqlite"
)

// Config selects and tunes the run log backend.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "allocation_logs.db"
		default:
			c.Path = "allocation_logs.jsonl"
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 28
	}
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendJSONL, BackendRotating, BackendSQLite:
	default:
		return fmt.Errorf("unknown logging backend %q", c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings must not be negative")
	}
	return nil
}

// NewStore opens the configured backend. It returns a nil store for BackendNone.
func NewStore(cfg Config) (LogStore, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend != BackendNone && cfg.Backend != BackendRotating {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
	}
	var (
		store LogStore
		err   error
	)
	switch cfg.Backend {
	case BackendJSONL:
		store, err = NewJSONLStore(cfg.Path)
	case BackendRotating:
		store, err = NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case BackendSQLite:
		store, err = NewSQLiteStore(cfg.Path)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s log store: %w", cfg.Backend, err)
	}
	return store, nil
}
