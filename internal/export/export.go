// Package export serializes activity lists to interchange formats and
// normalizes externally supplied records back into valid store inputs.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/arkadas/tempo/internal/storage"
	"github.com/arkadas/tempo/internal/timeutil"
)

// Record is the JSON interchange shape for one activity. Field names match
// the persisted layout; dates are ISO-8601.
type Record struct {
	ID          int64    `json:"id"`
	Activity    string   `json:"activity"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Day         int      `json:"day"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
}

// csvHeader is the column layout for CSV export and import.
var csvHeader = []string{
	"id", "activity", "description", "tags",
	"start", "end", "duration_minutes", "date",
}

// ToRecord converts a stored activity to its interchange shape.
func ToRecord(a *storage.Activity) Record {
	r := Record{
		ID:          a.ID,
		Activity:    a.Name,
		Description: a.Description,
		Tags:        a.Tags,
		Start:       a.Start.UTC().Format(time.RFC3339),
		Day:         a.Day,
		Month:       a.Month,
		Year:        a.Year,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if a.End != nil {
		r.End = a.End.UTC().Format(time.RFC3339)
	}
	return r
}

// WriteJSON writes the activities as an indented JSON array.
func WriteJSON(w io.Writer, activities []storage.Activity) error {
	records := make([]Record, len(activities))
	for i := range activities {
		records[i] = ToRecord(&activities[i])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteCSV writes the activities as CSV, one row per activity. An activity
// without an end gets an empty end column and "Ongoing" for its duration.
func WriteCSV(w io.Writer, activities []storage.Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := range activities {
		a := &activities[i]

		end := ""
		duration := "Ongoing"
		if a.End != nil {
			end = a.End.UTC().Format(time.RFC3339)
			duration = strconv.Itoa(timeutil.ElapsedMinutes(a.Start, *a.End))
		}

		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.Name,
			a.Description,
			strings.Join(a.Tags, ";"),
			a.Start.UTC().Format(time.RFC3339),
			end,
			duration,
			// The stored calendar date, not Start's date: after a store
			// round-trip Start is in UTC and its date can differ by a day.
			fmt.Sprintf("%04d-%02d-%02d", a.Year, a.Month, a.Day),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
