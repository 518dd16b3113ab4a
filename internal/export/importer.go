package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arkadas/tempo/internal/storage"
)

// DefaultName is assigned to imported records that carry no activity name.
const DefaultName = "Unnamed activity"

// ImportResult contains the outcome of reading an interchange file.
// Records without a parsable start timestamp are counted in Skipped rather
// than aborting the whole import.
type ImportResult struct {
	Inputs  []storage.ActivityInput
	Skipped int
}

// rawRecord is the untrusted shape read from an import file. Every field is
// optional; normalization applies explicit defaults.
type rawRecord struct {
	Activity    string   `json:"activity"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
}

// timestampFormats are tried in order when coercing imported date strings.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func coerceTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, f := range timestampFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalize coerces one raw record into a valid ActivityInput, or reports
// false when no usable start timestamp is present.
func normalize(raw rawRecord) (storage.ActivityInput, bool) {
	start, ok := coerceTimestamp(raw.Start)
	if !ok {
		return storage.ActivityInput{}, false
	}

	input := storage.ActivityInput{
		Name:        strings.TrimSpace(raw.Activity),
		Description: raw.Description,
		Tags:        raw.Tags,
		Start:       start,
	}
	if input.Name == "" {
		input.Name = DefaultName
	}
	if end, ok := coerceTimestamp(raw.End); ok {
		input.End = &end
	}
	return input, true
}

// ReadJSON reads a JSON array of externally-sourced records and normalizes
// each into a validated ActivityInput.
func ReadJSON(r io.Reader) (*ImportResult, error) {
	var raws []rawRecord
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	result := &ImportResult{Inputs: []storage.ActivityInput{}}
	for _, raw := range raws {
		input, ok := normalize(raw)
		if !ok {
			result.Skipped++
			continue
		}
		result.Inputs = append(result.Inputs, input)
	}
	return result, nil
}

// ReadCSV reads records in the WriteCSV column layout. The id, duration and
// date columns are ignored: ids are store-assigned and the rest is derived.
func ReadCSV(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["activity"]; !ok {
		return nil, fmt.Errorf("missing 'activity' column in header")
	}
	if _, ok := col["start"]; !ok {
		return nil, fmt.Errorf("missing 'start' column in header")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	result := &ImportResult{Inputs: []storage.ActivityInput{}}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		raw := rawRecord{
			Activity:    field(row, "activity"),
			Description: field(row, "description"),
			Start:       field(row, "start"),
			End:         field(row, "end"),
		}
		if tags := strings.TrimSpace(field(row, "tags")); tags != "" {
			raw.Tags = strings.Split(tags, ";")
		}

		input, ok := normalize(raw)
		if !ok {
			result.Skipped++
			continue
		}
		result.Inputs = append(result.Inputs, input)
	}
	return result, nil
}
