package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arkadas/tempo/internal/export"
	"github.com/arkadas/tempo/internal/stats"
	"github.com/arkadas/tempo/internal/storage"
	"github.com/arkadas/tempo/internal/timeutil"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	store, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, time.Now())
}

// executeWithStore runs list against a provided store (for testing).
func (c *ListCommand) executeWithStore(store storage.Store, now time.Time) error {
	ctx := context.Background()

	day, err := parseDate(c.Date, now)
	if err != nil {
		return err
	}

	activities, err := store.QueryByDateAndTags(ctx, day, c.Tags)
	if err != nil {
		return fmt.Errorf("query activities: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		records := make([]export.Record, 0, len(activities))
		for i := range activities {
			records = append(records, export.ToRecord(&activities[i]))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(activities) == 0 {
		if len(c.Tags) > 0 {
			fmt.Printf("No activities on %s matching tags: %s\n",
				day.Format("2006-01-02"), strings.Join(c.Tags, ", "))
		} else {
			fmt.Printf("No activities on %s\n", day.Format("2006-01-02"))
		}
		return nil
	}

	fmt.Printf("Activities on %s:\n", day.Format("2006-01-02"))
	var total int
	for i := range activities {
		a := &activities[i]
		minutes := stats.Duration(a, now)
		total += minutes

		end := "now"
		if a.End != nil {
			end = timeutil.FormatClock(a.End.Local())
		}
		line := fmt.Sprintf("  [%d] %s - %s  %-24s %s",
			a.ID, timeutil.FormatClock(a.Start.Local()), end, a.Name,
			timeutil.FormatMinutes(minutes))
		if len(a.Tags) > 0 {
			line += "  #" + strings.Join(a.Tags, " #")
		}
		fmt.Println(line)
	}
	fmt.Printf("\nTotal: %d activities, %s\n", len(activities), timeutil.FormatMinutes(total))

	return nil
}
