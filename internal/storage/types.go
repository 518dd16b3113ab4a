package storage

import "time"

// Activity represents a single tracked time interval. An activity with no
// End is the current (in-progress) activity; at most one is expected at a
// time under correct caller usage.
type Activity struct {
	ID          int64
	Name        string
	Description string
	Tags        []string
	Start       time.Time
	End         *time.Time
	// Day, Month and Year are the local calendar date components of Start,
	// kept in the row to back the date index. The store derives them from
	// Start on every write.
	Day   int
	Month int
	Year  int
}

// InProgress reports whether the activity has no end timestamp yet.
func (a *Activity) InProgress() bool {
	return a.End == nil
}

// ActivityInput carries the caller-supplied fields for a new activity.
type ActivityInput struct {
	Name        string
	Description string
	Tags        []string
	Start       time.Time
	End         *time.Time
}

// ActivityPatch describes a partial update. Nil fields are left unchanged.
// ClearEnd reopens the activity by removing its end timestamp; it takes
// precedence over End.
type ActivityPatch struct {
	Name        *string
	Description *string
	Tags        *[]string
	Start       *time.Time
	End         *time.Time
	ClearEnd    bool
}

// Stats holds aggregate statistics about the tempo database.
type Stats struct {
	TotalActivities int64
	DistinctTags    int64
	OldestStart     time.Time
	NewestStart     time.Time
	TopActivities   []NameCount
}

// NameCount pairs an activity name with its occurrence count.
type NameCount struct {
	Name  string
	Count int64
}
