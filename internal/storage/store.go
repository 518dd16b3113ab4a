package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store defines the interface for tempo data operations.
type Store interface {
	Open(ctx context.Context) error
	Create(ctx context.Context, input ActivityInput) (int64, error)
	Update(ctx context.Context, id int64, patch ActivityPatch) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Activity, error)
	GetCurrent(ctx context.Context) (*Activity, error)
	QueryByDate(ctx context.Context, date time.Time) ([]Activity, error)
	QueryByDateAndTags(ctx context.Context, date time.Time, tags []string) ([]Activity, error)
	ListAllTags(ctx context.Context) ([]string, error)
	GetAll(ctx context.Context) ([]Activity, error)
	GetStats(ctx context.Context) (*Stats, error)
	PurgeAll(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database. The zero value
// is not usable; construct with NewSQLiteStore and call Open before any
// other operation.
type SQLiteStore struct {
	path string
	db   *sql.DB

	// Prepared statements
	getActivity    *sql.Stmt
	getTags        *sql.Stmt
	deleteActivity *sql.Stmt
}

// NewSQLiteStore creates a store for the database at path. The file is not
// touched until Open.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Open opens the database, applies pending schema migrations, and prepares
// statements. Calling Open on an already-open store is a no-op success. All
// other operations fail with ErrNotOpen until Open succeeds.
func (s *SQLiteStore) Open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite3", s.path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	runner := NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return err
	}

	s.db = db
	if err := s.prepareStatements(); err != nil {
		s.db = nil
		db.Close()
		return fmt.Errorf("prepare statements: %w", err)
	}

	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getActivity, err = s.db.Prepare(`
		SELECT id, name, description, started_at, ended_at, day, month, year
		FROM activities WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.getTags, err = s.db.Prepare(`
		SELECT tag FROM activity_tags WHERE activity_id = ? ORDER BY position
	`)
	if err != nil {
		return err
	}

	s.deleteActivity, err = s.db.Prepare(`DELETE FROM activities WHERE id = ?`)
	if err != nil {
		return err
	}

	return nil
}

// ensureOpen guards every operation behind Open completion.
func (s *SQLiteStore) ensureOpen() error {
	if s.db == nil {
		return ErrNotOpen
	}
	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// dedupeTags trims whitespace, drops empties, and removes duplicates while
// preserving first-occurrence order.
func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Create validates the input, assigns a new id, and persists the activity
// together with its tag rows in one transaction. The activity's Day, Month
// and Year are derived from Start, so callers never manage them.
func (s *SQLiteStore) Create(ctx context.Context, input ActivityInput) (int64, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	if input.Start.IsZero() {
		return 0, fmt.Errorf("%w: start is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Name) == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	year, month, day := input.Start.Date()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var endVal interface{}
	if input.End != nil {
		endVal = input.End.UTC().Format(time.RFC3339)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO activities (name, description, started_at, ended_at, day, month, year)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Name, input.Description,
		input.Start.UTC().Format(time.RFC3339), endVal,
		day, int(month), year,
	)
	if err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read new id: %w", err)
	}

	if err := insertTags(ctx, tx, id, input.Tags); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create: %w", err)
	}
	return id, nil
}

// insertTags writes the deduplicated tag set for an activity, preserving
// insertion order via the position column.
func insertTags(ctx context.Context, tx *sql.Tx, id int64, tags []string) error {
	for i, tag := range dedupeTags(tags) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO activity_tags (activity_id, tag, position) VALUES (?, ?, ?)",
			id, tag, i,
		); err != nil {
			return fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}
	return nil
}

// Update merges the patch into the stored record. Unset patch fields leave
// the stored values unchanged; a patched Start rederives the date columns.
// Returns ErrNotFound if no activity has the given id.
func (s *SQLiteStore) Update(ctx context.Context, id int64, patch ActivityPatch) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	cur, err := scanActivityRow(tx.QueryRowContext(ctx, `
		SELECT id, name, description, started_at, ended_at, day, month, year
		FROM activities WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return fmt.Errorf("load activity: %w", err)
	}

	if patch.Name != nil {
		cur.Name = *patch.Name
	}
	if patch.Description != nil {
		cur.Description = *patch.Description
	}
	if patch.Start != nil {
		cur.Start = *patch.Start
		y, m, d := patch.Start.Date()
		cur.Year, cur.Month, cur.Day = y, int(m), d
	}
	switch {
	case patch.ClearEnd:
		cur.End = nil
	case patch.End != nil:
		cur.End = patch.End
	}

	var endVal interface{}
	if cur.End != nil {
		endVal = cur.End.UTC().Format(time.RFC3339)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE activities
		 SET name = ?, description = ?, started_at = ?, ended_at = ?,
		     day = ?, month = ?, year = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		cur.Name, cur.Description,
		cur.Start.UTC().Format(time.RFC3339), endVal,
		cur.Day, cur.Month, cur.Year, id,
	); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}

	if patch.Tags != nil {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM activity_tags WHERE activity_id = ?", id,
		); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if err := insertTags(ctx, tx, id, *patch.Tags); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes an activity and its tag rows (cascade). Deleting a
// nonexistent id is a no-op success.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if _, err := s.deleteActivity.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

// GetByID retrieves a single activity, tags included.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*Activity, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	a, err := scanActivityRow(s.getActivity.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}

	if err := s.attachTags(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetCurrent returns the single in-progress activity, or nil if none. If
// the store holds more than one open record (a data-integrity anomaly the
// store does not correct), the one with the lowest id wins.
func (s *SQLiteStore) GetCurrent(ctx context.Context) (*Activity, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	a, err := scanActivityRow(s.db.QueryRowContext(ctx, `
		SELECT id, name, description, started_at, ended_at, day, month, year
		FROM activities WHERE ended_at IS NULL ORDER BY id LIMIT 1`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current activity: %w", err)
	}

	if err := s.attachTags(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// QueryByDate returns all activities whose stored (year, month, day) equals
// the given date's calendar date, ordered ascending by start.
func (s *SQLiteStore) QueryByDate(ctx context.Context, date time.Time) ([]Activity, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	year, month, day := date.Date()
	return s.scanActivities(ctx, `
		SELECT id, name, description, started_at, ended_at, day, month, year
		FROM activities
		WHERE year = ? AND month = ? AND day = ?
		ORDER BY started_at ASC, id ASC`,
		year, int(month), day,
	)
}

// QueryByDateAndTags returns the activities on the given date that carry
// every tag in tags (AND semantics). An empty tag list applies no tag
// filter.
func (s *SQLiteStore) QueryByDateAndTags(ctx context.Context, date time.Time, tags []string) ([]Activity, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	tags = dedupeTags(tags)
	if len(tags) == 0 {
		return s.QueryByDate(ctx, date)
	}

	year, month, day := date.Date()

	placeholders := strings.Repeat("?,", len(tags))
	placeholders = placeholders[:len(placeholders)-1]

	args := []interface{}{year, int(month), day}
	for _, tag := range tags {
		args = append(args, tag)
	}
	args = append(args, len(tags))

	return s.scanActivities(ctx, fmt.Sprintf(`
		SELECT a.id, a.name, a.description, a.started_at, a.ended_at, a.day, a.month, a.year
		FROM activities a
		JOIN activity_tags t ON t.activity_id = a.id
		WHERE a.year = ? AND a.month = ? AND a.day = ?
		  AND t.tag IN (%s)
		GROUP BY a.id
		HAVING COUNT(DISTINCT t.tag) = ?
		ORDER BY a.started_at ASC, a.id ASC`, placeholders),
		args...,
	)
}

// ListAllTags returns the distinct tags across all activities, sorted
// lexicographically ascending.
func (s *SQLiteStore) ListAllTags(ctx context.Context) ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT tag FROM activity_tags ORDER BY tag ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// GetAll returns every activity ordered ascending by start. Used by the
// statistics engine and the export adapter.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]Activity, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	return s.scanActivities(ctx, `
		SELECT id, name, description, started_at, ended_at, day, month, year
		FROM activities
		ORDER BY started_at ASC, id ASC`)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanActivityRow scans one activity row without its tags.
func scanActivityRow(row rowScanner) (*Activity, error) {
	var a Activity
	var startStr string
	var endStr sql.NullString

	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &startStr, &endStr,
		&a.Day, &a.Month, &a.Year,
	)
	if err != nil {
		return nil, err
	}

	a.Start, err = parseTimestamp(startStr)
	if err != nil {
		return nil, err
	}
	if endStr.Valid {
		end, err := parseTimestamp(endStr.String)
		if err != nil {
			return nil, err
		}
		a.End = &end
	}

	return &a, nil
}

// scanActivities executes a query and scans results, attaching tags.
func (s *SQLiteStore) scanActivities(ctx context.Context, query string, args ...interface{}) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := []Activity{}
	for rows.Next() {
		a, err := scanActivityRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range activities {
		if err := s.attachTags(ctx, &activities[i]); err != nil {
			return nil, err
		}
	}

	return activities, nil
}

// attachTags loads the tag set for an activity in insertion order. An
// activity without tag rows gets an empty slice, never nil, so callers never
// see absent-vs-empty ambiguity.
func (s *SQLiteStore) attachTags(ctx context.Context, a *Activity) error {
	rows, err := s.getTags.QueryContext(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	a.Tags = []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		a.Tags = append(a.Tags, tag)
	}
	return rows.Err()
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&stats.TotalActivities)
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT tag) FROM activity_tags").Scan(&stats.DistinctTags)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	if stats.TotalActivities > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx,
			"SELECT MIN(started_at), MAX(started_at) FROM activities",
		).Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("activity time range: %w", err)
		}
		stats.OldestStart, err = parseTimestamp(oldestStr)
		if err != nil {
			return nil, fmt.Errorf("parse oldest start: %w", err)
		}
		stats.NewestStart, err = parseTimestamp(newestStr)
		if err != nil {
			return nil, fmt.Errorf("parse newest start: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, COUNT(*) as cnt FROM activities GROUP BY name ORDER BY cnt DESC, name ASC LIMIT 5",
	)
	if err != nil {
		return nil, fmt.Errorf("top activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		stats.TopActivities = append(stats.TopActivities, nc)
	}

	return stats, rows.Err()
}

// PurgeAll deletes all activities and tags.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	stmts := []string{
		"DELETE FROM activity_tags",
		"DELETE FROM activities",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// Close releases prepared statements and the underlying database handle.
// Closing a never-opened or already-closed store is a no-op.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}

	stmts := []*sql.Stmt{s.getActivity, s.getTags, s.deleteActivity}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}

	err := s.db.Close()
	s.db = nil
	return err
}
