package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkadas/tempo/internal/storage"
)

// frozen "now" for every test in this file.
var now = time.Date(2024, time.June, 15, 18, 0, 0, 0, time.Local)

// done builds a finished activity of the given length with derived date
// columns, the shape the store hands out.
func done(name string, start time.Time, minutes int, tags ...string) storage.Activity {
	end := start.Add(time.Duration(minutes) * time.Minute)
	y, m, d := start.Date()
	if tags == nil {
		tags = []string{}
	}
	return storage.Activity{
		Name:  name,
		Tags:  tags,
		Start: start,
		End:   &end,
		Day:   d,
		Month: int(m),
		Year:  y,
	}
}

// open builds an in-progress activity.
func open(name string, start time.Time, tags ...string) storage.Activity {
	a := done(name, start, 0, tags...)
	a.End = nil
	return a
}

// daysBack returns a start time n calendar days before now, at 10:00 local.
func daysBack(n int) time.Time {
	y, m, d := now.AddDate(0, 0, -n).Date()
	return time.Date(y, m, d, 10, 0, 0, 0, time.Local)
}

// --- Duration ---

func TestDuration(t *testing.T) {
	a := done("A", daysBack(0), 90)
	assert.Equal(t, 90, Duration(&a, now))

	// Open activity measures against injected now.
	b := open("B", now.Add(-45*time.Minute))
	assert.Equal(t, 45, Duration(&b, now))
}

// --- Summarize ---

func TestSummarize_Empty(t *testing.T) {
	p := Summarize(nil, now)
	assert.Equal(t, Period{}, p)
}

func TestSummarize(t *testing.T) {
	activities := []storage.Activity{
		done("A", daysBack(0), 60),
		done("B", daysBack(0), 30),
		done("C", daysBack(2), 45),
	}
	p := Summarize(activities, now)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, 135, p.TotalMinutes)
	assert.Equal(t, 2, p.ActiveDays)
	assert.Equal(t, 68, p.AvgPerDay, "135/2 rounded to nearest")
}

// --- Trend ---

func TestTrend(t *testing.T) {
	assert.Equal(t, 0, Trend(0, 0))
	assert.Equal(t, 100, Trend(0, 5))
	assert.Equal(t, 50, Trend(50, 75))
	assert.Equal(t, -50, Trend(100, 50))
	assert.Equal(t, 33, Trend(30, 40), "rounded to nearest")
}

func TestCompareTrends(t *testing.T) {
	prev := Period{Count: 2, TotalMinutes: 50, ActiveDays: 0, AvgPerDay: 0}
	cur := Period{Count: 3, TotalMinutes: 75, ActiveDays: 2, AvgPerDay: 0}
	tr := CompareTrends(prev, cur)
	assert.Equal(t, 50, tr.Count)
	assert.Equal(t, 50, tr.TotalMinutes)
	assert.Equal(t, 100, tr.ActiveDays)
	assert.Equal(t, 0, tr.AvgPerDay)
}

// --- WindowSplit ---

func TestWindowSplit_NonOverlapping(t *testing.T) {
	inCurrent := done("cur", daysBack(3), 30)
	edgeCurrent := done("edge-cur", daysBack(6), 30)
	inPrevious := done("prev", daysBack(7), 30)
	edgePrevious := done("edge-prev", daysBack(13), 30)
	outside := done("old", daysBack(14), 30)

	current, previous := WindowSplit([]storage.Activity{
		inCurrent, edgeCurrent, inPrevious, edgePrevious, outside,
	}, 7, now)

	require.Len(t, current, 2)
	assert.Equal(t, "cur", current[0].Name)
	assert.Equal(t, "edge-cur", current[1].Name)

	require.Len(t, previous, 2)
	assert.Equal(t, "prev", previous[0].Name)
	assert.Equal(t, "edge-prev", previous[1].Name)
}

func TestWindowSplit_AllTime(t *testing.T) {
	activities := []storage.Activity{
		done("a", daysBack(0), 30),
		done("b", daysBack(400), 30),
	}
	current, previous := WindowSplit(activities, 0, now)
	assert.Len(t, current, 2)
	assert.Empty(t, previous)
}

// --- TopActivity and distributions ---

func TestTopActivity(t *testing.T) {
	activities := []storage.Activity{
		done("Reading", daysBack(0), 30),
		done("Coding", daysBack(0), 60),
		done("Reading", daysBack(1), 45),
	}
	name, minutes := TopActivity(activities, now)
	assert.Equal(t, "Reading", name)
	assert.Equal(t, 75, minutes)
}

func TestTopActivity_TieBreaksFirstEncountered(t *testing.T) {
	activities := []storage.Activity{
		done("Alpha", daysBack(0), 30),
		done("Beta", daysBack(0), 30),
	}
	name, _ := TopActivity(activities, now)
	assert.Equal(t, "Alpha", name)
}

func TestTopActivity_Empty(t *testing.T) {
	name, minutes := TopActivity(nil, now)
	assert.Equal(t, "", name)
	assert.Equal(t, 0, minutes)
}

func TestByActivity_TruncatesToTen(t *testing.T) {
	var activities []storage.Activity
	for i := 0; i < 15; i++ {
		activities = append(activities, done(fmt.Sprintf("act-%02d", i), daysBack(0), 10+i))
	}
	slices := ByActivity(activities, now)
	require.Len(t, slices, 10)
	assert.Equal(t, "act-14", slices[0].Name, "sorted descending by minutes")
	assert.Equal(t, 24, slices[0].Minutes)
}

func TestByTag(t *testing.T) {
	activities := []storage.Activity{
		done("A", daysBack(0), 60, "work", "deep"),
		done("B", daysBack(0), 30, "work"),
		done("C", daysBack(0), 15),
	}
	slices := ByTag(activities, now)
	require.Len(t, slices, 2)
	assert.Equal(t, Slice{Name: "work", Minutes: 90}, slices[0])
	assert.Equal(t, Slice{Name: "deep", Minutes: 60}, slices[1])
}

func TestByTag_TruncatesToEight(t *testing.T) {
	var activities []storage.Activity
	for i := 0; i < 12; i++ {
		activities = append(activities, done("A", daysBack(0), 10+i, fmt.Sprintf("tag-%02d", i)))
	}
	assert.Len(t, ByTag(activities, now), 8)
}

// --- DailySeries ---

func TestDailySeries_NeverSkipsADay(t *testing.T) {
	activities := []storage.Activity{
		done("A", daysBack(0), 60),
		done("B", daysBack(2), 30),
		done("C", daysBack(2), 15),
	}
	series := DailySeries(activities, 5, now)
	require.Len(t, series, 5)

	// Oldest first, every day present.
	for i := 1; i < len(series); i++ {
		assert.Equal(t, series[i-1].Date.AddDate(0, 0, 1), series[i].Date)
	}

	assert.Equal(t, 0, series[0].Minutes) // 4 days ago
	assert.Equal(t, 0, series[1].Minutes)
	assert.Equal(t, 45, series[2].Minutes) // 2 days ago
	assert.Equal(t, 0, series[3].Minutes)
	assert.Equal(t, 60, series[4].Minutes) // today
}

func TestDailySeries_EmptyInput(t *testing.T) {
	series := DailySeries(nil, 3, now)
	require.Len(t, series, 3)
	for _, dt := range series {
		assert.Equal(t, 0, dt.Minutes)
	}
}

func TestDailySeries_ZeroWindow(t *testing.T) {
	assert.Empty(t, DailySeries(nil, 0, now))
}

func TestDailySeries_DSTSpringForward(t *testing.T) {
	// 2024-03-10 is the US spring-forward day: only 23 hours long in local
	// time. Yesterday's minutes must still land in yesterday's bucket.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	dstNow := time.Date(2024, time.March, 11, 12, 0, 0, 0, loc)
	activities := []storage.Activity{
		done("Reading", time.Date(2024, time.March, 10, 10, 0, 0, 0, loc), 30),
	}

	series := DailySeries(activities, 2, dstNow)
	require.Len(t, series, 2)
	assert.Equal(t, 30, series[0].Minutes)
	assert.Equal(t, 0, series[1].Minutes)
}

func TestWindowSplit_DSTSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	dstNow := time.Date(2024, time.March, 11, 12, 0, 0, 0, loc)
	activities := []storage.Activity{
		done("Reading", time.Date(2024, time.March, 10, 10, 0, 0, 0, loc), 30),
	}

	// The spring-forward day is exactly one day ago, so with a 1-day window
	// it belongs to the previous period, not the current one.
	current, previous := WindowSplit(activities, 1, dstNow)
	assert.Empty(t, current)
	require.Len(t, previous, 1)
	assert.Equal(t, "Reading", previous[0].Name)
}

// --- WeekdayHeatmap ---

func TestWeekdayHeatmap(t *testing.T) {
	a := done("A", daysBack(0), 30)  // this week
	b := done("B", daysBack(10), 45) // one full week back
	c := done("C", daysBack(30), 60) // outside the trailing 4 weeks

	heat := WeekdayHeatmap([]storage.Activity{a, b, c}, now)

	assert.Equal(t, 30, heat[0][int(now.Weekday())])
	assert.Equal(t, 45, heat[1][int(daysBack(10).Weekday())])

	var total int
	for _, week := range heat {
		for _, m := range week {
			total += m
		}
	}
	assert.Equal(t, 75, total, "each day lands in exactly one bucket; old data excluded")
}

// --- Productivity score ---

func TestProductivity_ZeroActivities(t *testing.T) {
	assert.Equal(t, ScoreBreakdown{}, Productivity(nil, 30, now))
}

func TestProductivity_PerfectScore(t *testing.T) {
	// Full consistency (one per day over the whole window), sessions in
	// [25,90], every one tagged, 10 distinct names.
	var activities []storage.Activity
	for i := 0; i < 10; i++ {
		activities = append(activities, done(fmt.Sprintf("name-%d", i), daysBack(i), 45, "tagged"))
	}
	sb := Productivity(activities, 10, now)
	assert.Equal(t, 100, sb.Consistency)
	assert.Equal(t, 100, sb.SessionQuality)
	assert.Equal(t, 100, sb.Organization)
	assert.Equal(t, 100, sb.Variety)
	assert.Equal(t, 100, sb.Score)
}

func TestProductivity_SessionQualityPiecewise(t *testing.T) {
	// One 200-minute session: quality = max(50, 100-(200-90)/2) = 50.
	long := []storage.Activity{done("Marathon", daysBack(0), 200, "t")}
	sb := Productivity(long, 1, now)
	assert.Equal(t, 50, sb.SessionQuality)

	// One 10-minute session: quality = 10/25*100 = 40.
	short := []storage.Activity{done("Blip", daysBack(0), 10, "t")}
	sb = Productivity(short, 1, now)
	assert.Equal(t, 40, sb.SessionQuality)
}

func TestProductivity_UntaggedLowersOrganization(t *testing.T) {
	activities := []storage.Activity{
		done("A", daysBack(0), 45, "t"),
		done("B", daysBack(0), 45),
	}
	sb := Productivity(activities, 1, now)
	assert.Equal(t, 50, sb.Organization)
}

func TestProductivity_AllTimeWindowUsesDefaultDenominator(t *testing.T) {
	// 3 active days against the 30-day fallback: consistency 10%.
	activities := []storage.Activity{
		done("A", daysBack(0), 45, "t"),
		done("B", daysBack(1), 45, "t"),
		done("C", daysBack(2), 45, "t"),
	}
	sb := Productivity(activities, 0, now)
	assert.Equal(t, 10, sb.Consistency)
}
