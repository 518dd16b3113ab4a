package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arkadas/tempo/internal/export"
	"github.com/arkadas/tempo/internal/storage"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	store, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs export against a provided store (for testing).
func (c *ExportCommand) executeWithStore(store storage.Store) error {
	if c.Format != "json" && c.Format != "csv" {
		return fmt.Errorf("unsupported export format %q (use json or csv)", c.Format)
	}

	activities, err := store.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}

	var w io.Writer = os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if c.Format == "csv" {
		err = export.WriteCSV(w, activities)
	} else {
		err = export.WriteJSON(w, activities)
	}
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if c.Out != "" {
		fmt.Fprintf(os.Stderr, "Exported %d activities to %s\n", len(activities), c.Out)
	}
	return nil
}
