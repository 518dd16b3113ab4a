package storage

import (
	"database/sql"
	"fmt"
)

// migration represents a single schema migration step.
type migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

// MigrationRunner applies pending migrations to a SQLite database. The
// ordered step list lives here, decoupled from the store, so the upgrade
// sequence is testable on its own.
type MigrationRunner struct {
	db         *sql.DB
	migrations []migration
}

// NewMigrationRunner creates a MigrationRunner with all registered migrations.
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db: db,
		migrations: []migration{
			{Version: 1, Name: "initial_schema", Apply: migrateV001},
			{Version: 2, Name: "activity_tags", Apply: migrateV002},
		},
	}
}

// TargetVersion returns the schema version this build writes.
func (r *MigrationRunner) TargetVersion() int {
	return r.migrations[len(r.migrations)-1].Version
}

// Version returns the currently committed schema version, 0 for a fresh
// database.
func (r *MigrationRunner) Version() (int, error) {
	if err := r.ensureTracking(); err != nil {
		return 0, err
	}
	var v int
	err := r.db.QueryRow(
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations",
	).Scan(&v)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Run applies all pending migrations in ascending order inside a single
// transaction. It enables WAL mode and foreign keys, creates the
// schema_migrations tracking table, then applies every step newer than the
// committed version. A database already at the target version runs zero
// steps; a database newer than the target fails with ErrIncompatibleVersion.
// If any step fails the transaction rolls back and the committed version is
// unchanged.
func (r *MigrationRunner) Run() error {
	// WAL for concurrent read performance.
	if _, err := r.db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := r.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	current, err := r.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if current > r.TargetVersion() {
		return fmt.Errorf("%w: database at version %d, this build targets %d",
			ErrIncompatibleVersion, current, r.TargetVersion())
	}
	if current == r.TargetVersion() {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upgrade transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, m := range r.migrations {
		if m.Version <= current {
			continue
		}
		if err := m.Apply(tx); err != nil {
			return fmt.Errorf("%w: step %d (%s): %v", ErrMigrationFailed, m.Version, m.Name, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.Version, m.Name,
		); err != nil {
			return fmt.Errorf("%w: record step %d: %v", ErrMigrationFailed, m.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit upgrade: %v", ErrMigrationFailed, err)
	}
	return nil
}

// ensureTracking creates the schema_migrations table if it is missing.
func (r *MigrationRunner) ensureTracking() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}
