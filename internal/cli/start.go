package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arkadas/tempo/internal/storage"
	"github.com/arkadas/tempo/internal/timeutil"
)

// Execute implements the go-flags Commander interface for StartCommand.
func (c *StartCommand) Execute(args []string) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("--name is required for start command")
	}

	store, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, time.Now())
}

// executeWithStore runs the start logic against a provided store (used by tests).
func (c *StartCommand) executeWithStore(store storage.Store, now time.Time) error {
	ctx := context.Background()

	start := now
	if c.At != "" {
		var err error
		start, err = timeutil.ParseClock(c.At, now)
		if err != nil {
			return err
		}
	}

	// One open activity at a time: stop the current one where the new one
	// begins.
	var stopped *storage.Activity
	current, err := store.GetCurrent(ctx)
	if err != nil {
		return fmt.Errorf("check current activity: %w", err)
	}
	if current != nil {
		if err := store.Update(ctx, current.ID, storage.ActivityPatch{End: &start}); err != nil {
			return fmt.Errorf("stop current activity: %w", err)
		}
		stopped = current
	}

	id, err := store.Create(ctx, storage.ActivityInput{
		Name:        c.Name,
		Description: c.Description,
		Tags:        c.Tags,
		Start:       start,
	})
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"id":    id,
			"name":  c.Name,
			"start": start.Format(time.RFC3339),
		}
		if stopped != nil {
			out["stopped"] = stopped.ID
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if stopped != nil {
		fmt.Printf("Stopped %q (%s)\n", stopped.Name,
			timeutil.FormatMinutes(timeutil.ElapsedMinutes(stopped.Start, start)))
	}
	fmt.Printf("Started %q at %s (id %d)\n", c.Name, timeutil.FormatClock(start), id)
	if len(c.Tags) > 0 {
		fmt.Printf("  Tags: %s\n", strings.Join(c.Tags, ", "))
	}

	return nil
}
