package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arkadas/tempo/internal/config"
	"github.com/arkadas/tempo/internal/storage"
)

// loadConfig resolves the configuration, honoring the global --config flag.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.LoadOrCreateAt(globals.Config)
	}
	return config.LoadOrCreate()
}

// openStore loads the config, ensures the data directory exists, and opens
// a migrated store. The caller owns the returned store and must Close it.
func openStore(globals *GlobalFlags) (*storage.SQLiteStore, *config.Config, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Open(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	return store, cfg, nil
}

// parseDate parses a YYYY-MM-DD day in local time; empty means today.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), nil
}
