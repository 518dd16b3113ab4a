package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkadas/tempo/internal/storage"
)

// seedReport creates one 60-minute tagged session per day for the given
// day offsets back from testNow.
func seedReport(t *testing.T, store storage.Store, name string, daysBack ...int) {
	t.Helper()
	for _, back := range daysBack {
		start := testNow.AddDate(0, 0, -back).Add(-time.Hour)
		end := start.Add(time.Hour)
		mustCreate(t, store, storage.ActivityInput{
			Name:  name,
			Start: start,
			End:   &end,
			Tags:  []string{"routine"},
		})
	}
}

func TestReportCommand_HumanOutput(t *testing.T) {
	store := testStore(t)
	seedReport(t, store, "Writing", 0, 1, 2)
	seedReport(t, store, "Reading", 3)
	// Previous window only.
	seedReport(t, store, "Writing", 8, 9)

	cmd := &ReportCommand{globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, 7, testNow))
	})

	assert.Contains(t, out, "Report: last 7 days")
	assert.Contains(t, out, "Activities:   4")
	assert.Contains(t, out, "Time tracked: 4h")
	assert.Contains(t, out, "Active days:  4")
	assert.Contains(t, out, "Most time on: Writing")
	assert.Contains(t, out, "Productivity score:")
	assert.Contains(t, out, "By activity:")
	assert.Contains(t, out, "By tag:")
	assert.Contains(t, out, "routine")
	assert.Contains(t, out, "Daily:")
	assert.Contains(t, out, "Weekday minutes")
}

func TestReportCommand_AllTime(t *testing.T) {
	store := testStore(t)
	seedReport(t, store, "Writing", 0, 40, 100)

	cmd := &ReportCommand{globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, 0, testNow))
	})

	assert.Contains(t, out, "Report: all time")
	assert.Contains(t, out, "Activities:   3")
	// All-time has no preceding comparison period and no daily series.
	assert.NotContains(t, out, "Daily:")
}

func TestReportCommand_EmptyStore(t *testing.T) {
	store := testStore(t)

	cmd := &ReportCommand{globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, 7, testNow))
	})

	assert.Contains(t, out, "Activities:   0")
	assert.Contains(t, out, "Productivity score: 0/100")
	assert.NotContains(t, out, "Most time on:")
}

func TestReportCommand_TrendsAgainstPreviousWindow(t *testing.T) {
	store := testStore(t)
	seedReport(t, store, "Writing", 0, 1, 2) // current: 3
	seedReport(t, store, "Writing", 8, 9)    // previous: 2

	cmd := &ReportCommand{globals: &GlobalFlags{JSON: true}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, 7, testNow))
	})

	var got reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 7, got.WindowDays)
	assert.Equal(t, 3, got.Summary.Count)
	assert.Equal(t, 180, got.Summary.TotalMinutes)
	assert.Equal(t, 50, got.Trends.Count) // 2 -> 3 is +50%
	assert.Equal(t, "Writing", got.TopActivity)
	require.Len(t, got.Daily, 7)
}
