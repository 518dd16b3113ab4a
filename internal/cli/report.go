package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arkadas/tempo/internal/stats"
	"github.com/arkadas/tempo/internal/storage"
	"github.com/arkadas/tempo/internal/timeutil"
)

// reportJSON is the JSON output structure for the report command.
type reportJSON struct {
	WindowDays   int                  `json:"window_days"`
	Summary      stats.Period         `json:"summary"`
	Trends       stats.Trends         `json:"trends"`
	TopActivity  string               `json:"top_activity,omitempty"`
	Productivity stats.ScoreBreakdown `json:"productivity"`
	ByActivity   []stats.Slice        `json:"by_activity"`
	ByTag        []stats.Slice        `json:"by_tag"`
	Daily        []stats.DayTotal     `json:"daily,omitempty"`
	Heatmap      [4][7]int            `json:"weekday_heatmap"`
}

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
	store, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	windowDays := c.Window
	if windowDays < 0 {
		windowDays = cfg.Report.WindowDays
	}
	return c.executeWithStore(store, windowDays, time.Now())
}

// executeWithStore runs report against a provided store (for testing).
// A windowDays of 0 reports over all recorded history.
func (c *ReportCommand) executeWithStore(store storage.Store, windowDays int, now time.Time) error {
	ctx := context.Background()

	all, err := store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}

	current, previous := stats.WindowSplit(all, windowDays, now)
	summary := stats.Summarize(current, now)
	trends := stats.CompareTrends(stats.Summarize(previous, now), summary)
	topName, _ := stats.TopActivity(current, now)
	score := stats.Productivity(current, windowDays, now)
	byActivity := stats.ByActivity(current, now)
	byTag := stats.ByTag(current, now)
	daily := stats.DailySeries(current, windowDays, now)
	heatmap := stats.WeekdayHeatmap(all, now)

	if c.globals != nil && c.globals.JSON {
		out := reportJSON{
			WindowDays:   windowDays,
			Summary:      summary,
			Trends:       trends,
			TopActivity:  topName,
			Productivity: score,
			ByActivity:   byActivity,
			ByTag:        byTag,
			Daily:        daily,
			Heatmap:      heatmap,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if windowDays > 0 {
		fmt.Printf("Report: last %d days\n", windowDays)
	} else {
		fmt.Println("Report: all time")
	}
	fmt.Println()

	fmt.Printf("Activities:   %d (%+d%%)\n", summary.Count, trends.Count)
	fmt.Printf("Time tracked: %s (%+d%%)\n", timeutil.FormatMinutes(summary.TotalMinutes), trends.TotalMinutes)
	fmt.Printf("Active days:  %d (%+d%%)\n", summary.ActiveDays, trends.ActiveDays)
	fmt.Printf("Avg per day:  %s (%+d%%)\n", timeutil.FormatMinutes(summary.AvgPerDay), trends.AvgPerDay)
	if topName != "" {
		fmt.Printf("Most time on: %s\n", topName)
	}

	fmt.Println()
	fmt.Printf("Productivity score: %d/100\n", score.Score)
	fmt.Printf("  consistency %d  sessions %d  organization %d  variety %d\n",
		score.Consistency, score.SessionQuality, score.Organization, score.Variety)

	if len(byActivity) > 0 {
		fmt.Println()
		fmt.Println("By activity:")
		printSlices(byActivity)
	}
	if len(byTag) > 0 {
		fmt.Println()
		fmt.Println("By tag:")
		printSlices(byTag)
	}

	if len(daily) > 0 {
		fmt.Println()
		fmt.Println("Daily:")
		for _, d := range daily {
			bar := strings.Repeat("#", barWidth(d.Minutes, daily))
			fmt.Printf("  %s  %-8s %s\n", d.Date.Format("2006-01-02"),
				timeutil.FormatMinutes(d.Minutes), bar)
		}
	}

	fmt.Println()
	fmt.Println("Weekday minutes (last 4 weeks, most recent first):")
	fmt.Println("  Week  Sun  Mon  Tue  Wed  Thu  Fri  Sat")
	for week := 0; week < 4; week++ {
		fmt.Printf("  %4d", week)
		for _, minutes := range heatmap[week] {
			fmt.Printf(" %4d", minutes)
		}
		fmt.Println()
	}

	return nil
}

func printSlices(slices []stats.Slice) {
	for _, s := range slices {
		fmt.Printf("  %-24s %s\n", s.Name, timeutil.FormatMinutes(s.Minutes))
	}
}

// barWidth scales a day's minutes to a bar of at most 40 characters,
// relative to the busiest day in the series.
func barWidth(minutes int, daily []stats.DayTotal) int {
	max := 0
	for _, d := range daily {
		if d.Minutes > max {
			max = d.Minutes
		}
	}
	if max == 0 || minutes == 0 {
		return 0
	}
	w := minutes * 40 / max
	if w == 0 {
		w = 1
	}
	return w
}
