package storage

import "database/sql"

// migrateV002 adds tag storage. SQLite has no multi-valued indexes, so tags
// live in an auxiliary activity_tags table written in the same transaction
// as the activity row. A v1 record with no tag rows reads back as an empty
// tag set, never an absent one, so no per-record backfill is needed.
func migrateV002(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activity_tags (
			activity_id INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
			tag         TEXT NOT NULL,
			position    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (activity_id, tag)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activity_tags_tag ON activity_tags(tag)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
