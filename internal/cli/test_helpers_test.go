package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/arkadas/tempo/internal/storage"
)

// testNow is a fixed reference time (a Saturday evening) so command output
// does not depend on when the tests run.
var testNow = time.Date(2024, time.June, 15, 18, 0, 0, 0, time.Local)

// testStore creates a temporary SQLite-backed store with migrations applied.
func testStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tempo.db")
	store := storage.NewSQLiteStore(dbPath)
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

// mustCreate inserts an activity and returns its id.
func mustCreate(t *testing.T, store storage.Store, input storage.ActivityInput) int64 {
	t.Helper()
	id, err := store.Create(context.Background(), input)
	require.NoError(t, err)
	return id
}

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
