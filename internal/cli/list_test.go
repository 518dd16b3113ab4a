package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkadas/tempo/internal/export"
	"github.com/arkadas/tempo/internal/storage"
)

func seedListDay(t *testing.T, store storage.Store) {
	t.Helper()
	morningEnd := testNow.Add(-8 * time.Hour)
	mustCreate(t, store, storage.ActivityInput{
		Name:  "Reading",
		Start: testNow.Add(-9 * time.Hour),
		End:   &morningEnd,
		Tags:  []string{"leisure"},
	})
	noonEnd := testNow.Add(-5 * time.Hour)
	mustCreate(t, store, storage.ActivityInput{
		Name:  "Writing",
		Start: testNow.Add(-6 * time.Hour),
		End:   &noonEnd,
		Tags:  []string{"work", "focus"},
	})
	mustCreate(t, store, storage.ActivityInput{
		Name:  "Errands",
		Start: testNow.Add(-1 * time.Hour),
	})
	// A different day; must never show up.
	otherEnd := testNow.AddDate(0, 0, -3).Add(time.Hour)
	mustCreate(t, store, storage.ActivityInput{
		Name:  "Old entry",
		Start: testNow.AddDate(0, 0, -3),
		End:   &otherEnd,
	})
}

func TestListCommand_Today(t *testing.T) {
	store := testStore(t)
	seedListDay(t, store)

	cmd := &ListCommand{globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, testNow))
	})

	assert.Contains(t, out, "Reading")
	assert.Contains(t, out, "Writing")
	assert.Contains(t, out, "Errands")
	assert.NotContains(t, out, "Old entry")
	assert.Contains(t, out, "#work #focus")
	// Ongoing activity is clocked against now.
	assert.Contains(t, out, "now")
	assert.Contains(t, out, "Total: 3 activities, 3h")
}

func TestListCommand_TagFilter(t *testing.T) {
	store := testStore(t)
	seedListDay(t, store)

	cmd := &ListCommand{Tags: []string{"work", "focus"}, globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, testNow))
	})

	assert.Contains(t, out, "Writing")
	assert.NotContains(t, out, "Reading")
	assert.NotContains(t, out, "Errands")
}

func TestListCommand_ExplicitDate(t *testing.T) {
	store := testStore(t)
	seedListDay(t, store)

	day := testNow.AddDate(0, 0, -3)
	cmd := &ListCommand{Date: day.Format("2006-01-02"), globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, testNow))
	})

	assert.Contains(t, out, "Old entry")
	assert.NotContains(t, out, "Reading")
}

func TestListCommand_EmptyDay(t *testing.T) {
	store := testStore(t)

	cmd := &ListCommand{globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, testNow))
	})
	assert.Contains(t, out, "No activities on "+testNow.Format("2006-01-02"))
}

func TestListCommand_InvalidDate(t *testing.T) {
	store := testStore(t)

	cmd := &ListCommand{Date: "15/06/2024", globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestListCommand_JSONOutput(t *testing.T) {
	store := testStore(t)
	seedListDay(t, store)

	cmd := &ListCommand{globals: &GlobalFlags{JSON: true}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, testNow))
	})

	var records []export.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "Reading", records[0].Activity)
}
