package storage

import "database/sql"

// migrateV001 creates the baseline schema: the activities table plus the
// date and name indexes. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			started_at  DATETIME NOT NULL,
			ended_at    DATETIME,
			day         INTEGER NOT NULL,
			month       INTEGER NOT NULL,
			year        INTEGER NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_date       ON activities(year, month, day)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_name       ON activities(name)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_started_at ON activities(started_at)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
