// Package stats computes aggregate statistics, period-over-period trends,
// a composite productivity score, and time-bucketed series over activity
// lists. Everything here is pure: the caller fetches the activities and
// injects "now", so results are reproducible in tests.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/arkadas/tempo/internal/storage"
	"github.com/arkadas/tempo/internal/timeutil"
)

// Distribution truncation limits.
const (
	topActivities = 10
	topTags       = 8
)

// defaultWindowDays stands in for an all-time (0) window where a concrete
// denominator is needed.
const defaultWindowDays = 30

// Period holds aggregate statistics over one activity list.
type Period struct {
	Count        int `json:"count"`
	TotalMinutes int `json:"total_minutes"`
	ActiveDays   int `json:"active_days"`
	// AvgPerDay is total minutes per active day, rounded to nearest; 0 when
	// there are no active days.
	AvgPerDay int `json:"avg_per_day"`
}

// Trends holds the percentage change of each Period statistic against the
// immediately preceding period of equal length.
type Trends struct {
	Count        int `json:"count"`
	TotalMinutes int `json:"total_minutes"`
	ActiveDays   int `json:"active_days"`
	AvgPerDay    int `json:"avg_per_day"`
}

// DayTotal is one point of a daily time series.
type DayTotal struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

// Slice is one entry of a per-activity or per-tag distribution.
type Slice struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

// ScoreBreakdown carries the productivity score and its weighted
// sub-scores, each already clamped to [0,100].
type ScoreBreakdown struct {
	Consistency    int `json:"consistency"`
	SessionQuality int `json:"session_quality"`
	Organization   int `json:"organization"`
	Variety        int `json:"variety"`
	Score          int `json:"score"`
}

// Duration returns an activity's length in whole minutes, using now for an
// activity still in progress. Negative results from inconsistent stored
// data are returned as-is; the engine does not correct them.
func Duration(a *storage.Activity, now time.Time) int {
	end := now
	if a.End != nil {
		end = *a.End
	}
	return timeutil.ElapsedMinutes(a.Start, end)
}

// dayKey collapses an activity's denormalized calendar date into one
// comparable integer.
func dayKey(a *storage.Activity) int {
	return a.Year*10000 + a.Month*100 + a.Day
}

// calendarDate returns midnight UTC of the activity's stored calendar date.
// UTC midnights are always exactly 24h apart, so date differences stay
// whole-day multiples even when the local zone observes DST.
func calendarDate(a *storage.Activity) time.Time {
	return time.Date(a.Year, time.Month(a.Month), a.Day, 0, 0, 0, 0, time.UTC)
}

// daysAgo returns how many whole calendar days before now's date the
// activity falls; 0 means today, negative means the future.
func daysAgo(a *storage.Activity, now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(today.Sub(calendarDate(a)).Hours() / 24)
}

// WindowSplit partitions activities into the current trailing window of
// windowDays calendar days ending today, and the non-overlapping window of
// equal length immediately before it. A windowDays of 0 means all time:
// everything is current and the previous window is empty.
func WindowSplit(activities []storage.Activity, windowDays int, now time.Time) (current, previous []storage.Activity) {
	current = []storage.Activity{}
	previous = []storage.Activity{}
	if windowDays <= 0 {
		current = append(current, activities...)
		return current, previous
	}

	for _, a := range activities {
		ago := daysAgo(&a, now)
		switch {
		case ago >= 0 && ago < windowDays:
			current = append(current, a)
		case ago >= windowDays && ago < 2*windowDays:
			previous = append(previous, a)
		}
	}
	return current, previous
}

// Summarize computes the period statistics for an activity list.
func Summarize(activities []storage.Activity, now time.Time) Period {
	p := Period{Count: len(activities)}

	days := map[int]bool{}
	for i := range activities {
		p.TotalMinutes += Duration(&activities[i], now)
		days[dayKey(&activities[i])] = true
	}
	p.ActiveDays = len(days)

	if p.ActiveDays > 0 {
		p.AvgPerDay = int(math.Round(float64(p.TotalMinutes) / float64(p.ActiveDays)))
	}
	return p
}

// Trend returns the percentage change from previous to current: 0 when both
// are zero, 100 when rising from zero, otherwise round((c-p)/p*100).
func Trend(previous, current int) int {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

// CompareTrends computes the trend of every Period statistic.
func CompareTrends(previous, current Period) Trends {
	return Trends{
		Count:        Trend(previous.Count, current.Count),
		TotalMinutes: Trend(previous.TotalMinutes, current.TotalMinutes),
		ActiveDays:   Trend(previous.ActiveDays, current.ActiveDays),
		AvgPerDay:    Trend(previous.AvgPerDay, current.AvgPerDay),
	}
}

// sumByKey accumulates total minutes per key, remembering first-encounter
// order so ties resolve deterministically.
func sumByKey(keysOf func(a *storage.Activity) []string, activities []storage.Activity, now time.Time) []Slice {
	totals := map[string]int{}
	order := []string{}
	for i := range activities {
		d := Duration(&activities[i], now)
		for _, key := range keysOf(&activities[i]) {
			if _, seen := totals[key]; !seen {
				order = append(order, key)
			}
			totals[key] += d
		}
	}

	slices := make([]Slice, 0, len(order))
	for _, key := range order {
		slices = append(slices, Slice{Name: key, Minutes: totals[key]})
	}
	// Stable sort: ties keep first-encountered (input) order.
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Minutes > slices[j].Minutes
	})
	return slices
}

// TopActivity returns the activity name with the largest summed duration,
// and that total. Ties break toward the name encountered first in input
// order. Empty input yields ("", 0).
func TopActivity(activities []storage.Activity, now time.Time) (string, int) {
	byName := ByActivity(activities, now)
	if len(byName) == 0 {
		return "", 0
	}
	return byName[0].Name, byName[0].Minutes
}

// ByActivity returns summed minutes grouped by activity name, sorted
// descending, truncated to the top 10.
func ByActivity(activities []storage.Activity, now time.Time) []Slice {
	slices := sumByKey(func(a *storage.Activity) []string {
		return []string{a.Name}
	}, activities, now)
	if len(slices) > topActivities {
		slices = slices[:topActivities]
	}
	return slices
}

// ByTag returns summed minutes grouped by tag, sorted descending, truncated
// to the top 8.
func ByTag(activities []storage.Activity, now time.Time) []Slice {
	slices := sumByKey(func(a *storage.Activity) []string {
		return a.Tags
	}, activities, now)
	if len(slices) > topTags {
		slices = slices[:topTags]
	}
	return slices
}

// DailySeries returns summed minutes for each of the last windowDays
// calendar days ending today inclusive, oldest first. Days without
// activity report 0; the series never skips a day. windowDays must be
// positive; anything else yields an empty series.
func DailySeries(activities []storage.Activity, windowDays int, now time.Time) []DayTotal {
	if windowDays <= 0 {
		return []DayTotal{}
	}

	perDay := map[int]int{}
	for i := range activities {
		perDay[daysAgo(&activities[i], now)] += Duration(&activities[i], now)
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	series := make([]DayTotal, 0, windowDays)
	for ago := windowDays - 1; ago >= 0; ago-- {
		series = append(series, DayTotal{
			Date:    today.AddDate(0, 0, -ago),
			Minutes: perDay[ago],
		})
	}
	return series
}

// WeekdayHeatmap buckets summed minutes by (week offset from now 0..3,
// weekday 0..6 starting Sunday) over the trailing 4 weeks. Each calendar
// day contributes to exactly one bucket.
func WeekdayHeatmap(activities []storage.Activity, now time.Time) [4][7]int {
	var heat [4][7]int
	for i := range activities {
		a := &activities[i]
		ago := daysAgo(a, now)
		if ago < 0 || ago >= 28 {
			continue
		}
		week := ago / 7
		weekday := int(calendarDate(a).Weekday())
		heat[week][weekday] += Duration(a, now)
	}
	return heat
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Productivity computes the composite 0-100 score: a weighted blend of
// consistency (0.3), session quality (0.3), organization (0.2), and
// variety (0.2), each sub-score clamped to [0,100] before weighting. Zero
// activities score 0. A windowDays of 0 (all time) uses a 30-day
// denominator for consistency.
func Productivity(activities []storage.Activity, windowDays int, now time.Time) ScoreBreakdown {
	if len(activities) == 0 {
		return ScoreBreakdown{}
	}
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	p := Summarize(activities, now)

	consistency := clamp(float64(p.ActiveDays) / float64(windowDays) * 100)

	avgSession := float64(p.TotalMinutes) / float64(p.Count)
	var quality float64
	switch {
	case avgSession >= 25 && avgSession <= 90:
		quality = 100
	case avgSession > 90:
		quality = math.Max(50, 100-(avgSession-90)/2)
	default:
		quality = avgSession / 25 * 100
	}
	quality = clamp(quality)

	tagged := 0
	names := map[string]bool{}
	for i := range activities {
		if len(activities[i].Tags) > 0 {
			tagged++
		}
		names[activities[i].Name] = true
	}
	organization := clamp(float64(tagged) / float64(p.Count) * 100)
	variety := clamp(float64(len(names)) / 10 * 100)

	const wConsistency, wQuality, wOrganization, wVariety = 0.3, 0.3, 0.2, 0.2
	weighted := consistency*wConsistency + quality*wQuality +
		organization*wOrganization + variety*wVariety
	total := wConsistency + wQuality + wOrganization + wVariety

	return ScoreBreakdown{
		Consistency:    int(math.Round(consistency)),
		SessionQuality: int(math.Round(quality)),
		Organization:   int(math.Round(organization)),
		Variety:        int(math.Round(variety)),
		Score:          int(math.Round(weighted / total)),
	}
}
