package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/arkadas/tempo/internal/storage"
	"github.com/arkadas/tempo/internal/timeutil"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version         string            `json:"version"`
	DatabasePath    string            `json:"database_path,omitempty"`
	TotalActivities int64             `json:"total_activities"`
	DistinctTags    int64             `json:"distinct_tags"`
	OldestStart     string            `json:"oldest_start,omitempty"`
	NewestStart     string            `json:"newest_start,omitempty"`
	Current         *currentJSON      `json:"current,omitempty"`
	TopActivities   []nameCountJSON   `json:"top_activities"`
}

type currentJSON struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Start   string   `json:"start"`
	Minutes int      `json:"minutes"`
	Tags    []string `json:"tags"`
}

type nameCountJSON struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	dbPath, _ := cfg.DatabasePath()
	return c.executeWithStore(store, dbPath, time.Now())
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(store storage.Store, dbPath string, now time.Time) error {
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	current, err := store.GetCurrent(ctx)
	if err != nil {
		return fmt.Errorf("get current activity: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(stats, current, dbPath, now)
	}
	return c.printHuman(stats, current, dbPath, now)
}

func (c *StatusCommand) printHuman(stats *storage.Stats, current *storage.Activity, dbPath string, now time.Time) error {
	fmt.Println("Tempo Status")
	fmt.Println("============")
	fmt.Printf("Version:     %s\n", c.version)
	if dbPath != "" {
		fmt.Printf("Database:    %s\n", dbPath)
	}
	fmt.Printf("Activities:  %d\n", stats.TotalActivities)
	fmt.Printf("Tags:        %d\n", stats.DistinctTags)

	if stats.TotalActivities > 0 {
		fmt.Printf("Oldest:      %s\n", stats.OldestStart.Local().Format("2006-01-02"))
		fmt.Printf("Newest:      %s\n", stats.NewestStart.Local().Format("2006-01-02"))
	}

	fmt.Println()
	if current != nil {
		minutes := timeutil.ElapsedMinutes(current.Start, now)
		fmt.Printf("Current:     %q since %s (%s)\n", current.Name,
			timeutil.FormatClock(current.Start.Local()), timeutil.FormatMinutes(minutes))
	} else {
		fmt.Println("Current:     none")
	}

	if len(stats.TopActivities) > 0 {
		fmt.Println()
		fmt.Println("Most tracked:")
		for _, nc := range stats.TopActivities {
			fmt.Printf("  %-24s %d\n", nc.Name, nc.Count)
		}
	}

	return nil
}

func (c *StatusCommand) printJSON(stats *storage.Stats, current *storage.Activity, dbPath string, now time.Time) error {
	out := statusJSON{
		Version:         c.version,
		DatabasePath:    dbPath,
		TotalActivities: stats.TotalActivities,
		DistinctTags:    stats.DistinctTags,
		TopActivities:   make([]nameCountJSON, len(stats.TopActivities)),
	}

	if stats.TotalActivities > 0 {
		out.OldestStart = stats.OldestStart.UTC().Format(time.RFC3339)
		out.NewestStart = stats.NewestStart.UTC().Format(time.RFC3339)
	}

	if current != nil {
		out.Current = &currentJSON{
			ID:      current.ID,
			Name:    current.Name,
			Start:   current.Start.UTC().Format(time.RFC3339),
			Minutes: timeutil.ElapsedMinutes(current.Start, now),
			Tags:    current.Tags,
		}
	}

	for i, nc := range stats.TopActivities {
		out.TopActivities[i] = nameCountJSON{Name: nc.Name, Count: nc.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
