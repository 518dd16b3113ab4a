package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/arkadas/tempo/internal/config"
	"github.com/arkadas/tempo/internal/storage"
	"github.com/arkadas/tempo/internal/timeutil"
)

// Execute implements the go-flags Commander interface for StopCommand.
func (c *StopCommand) Execute(args []string) error {
	store, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store, cfg, time.Now())
}

// executeWithStore runs the stop logic against a provided store (used by tests).
func (c *StopCommand) executeWithStore(store storage.Store, cfg *config.Config, now time.Time) error {
	ctx := context.Background()

	end := now
	if c.At != "" {
		var err error
		end, err = timeutil.ParseClock(c.At, now)
		if err != nil {
			return err
		}
	}

	current, err := store.GetCurrent(ctx)
	if err != nil {
		return fmt.Errorf("check current activity: %w", err)
	}
	if current == nil {
		return fmt.Errorf("no activity is currently running")
	}

	if err := store.Update(ctx, current.ID, storage.ActivityPatch{End: &end}); err != nil {
		return fmt.Errorf("stop activity: %w", err)
	}

	minutes := timeutil.ElapsedMinutes(current.Start, end)

	if cfg != nil && cfg.Notifications.Enabled {
		notifyStopped(current.Name, minutes, cfg.Notifications.AutoHide)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"id":      current.ID,
			"name":    current.Name,
			"end":     end.Format(time.RFC3339),
			"minutes": minutes,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Stopped %q at %s (%s)\n", current.Name,
		timeutil.FormatClock(end), timeutil.FormatMinutes(minutes))
	return nil
}

// notifyStopped sends a best-effort desktop notification; failures are
// ignored since the CLI already printed the result.
func notifyStopped(name string, minutes int, autoHide bool) {
	beeep.AppName = "tempo"
	message := fmt.Sprintf("Stopped %q after %s", name, timeutil.FormatMinutes(minutes))
	if autoHide {
		_ = beeep.Notify("tempo", message, "")
		return
	}
	_ = beeep.Alert("tempo", message, "")
}
