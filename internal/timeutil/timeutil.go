// Package timeutil holds the small pure helpers shared by the statistics
// engine, the export adapter, and the CLI views.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatClock renders a point in time as 24-hour "hh:mm".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// ParseClock validates and parses 24-hour "hh:mm" input on the given date,
// in the date's location.
func ParseClock(s string, date time.Time) (time.Time, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time %q: expected hh:mm", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", s)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 || len(parts[1]) != 2 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", s)
	}

	year, month, day := date.Date()
	return time.Date(year, month, day, hour, min, 0, 0, date.Location()), nil
}

// ElapsedMinutes returns the duration between two points in whole minutes,
// floored.
func ElapsedMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// FormatMinutes renders a minute count as "Hh Mm", dropping zero components:
// 90 -> "1h 30m", 45 -> "45m", 120 -> "2h", 0 -> "0m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
