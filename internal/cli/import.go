package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkadas/tempo/internal/export"
	"github.com/arkadas/tempo/internal/storage"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required")
	}

	store, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	return c.executeWithStore(store, f)
}

// executeWithStore runs import against a provided store and input reader
// (for testing).
func (c *ImportCommand) executeWithStore(store storage.Store, r io.Reader) error {
	ctx := context.Background()

	format := c.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(c.File)) {
		case ".csv":
			format = "csv"
		default:
			format = "json"
		}
	}

	var result *export.ImportResult
	var err error
	switch format {
	case "json":
		result, err = export.ReadJSON(r)
	case "csv":
		result, err = export.ReadCSV(r)
	default:
		return fmt.Errorf("unsupported import format %q (use json or csv)", format)
	}
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	created := 0
	for i := range result.Inputs {
		if _, err := store.Create(ctx, result.Inputs[i]); err != nil {
			return fmt.Errorf("import record %d: %w", i+1, err)
		}
		created++
	}

	fmt.Printf("Imported %d activities", created)
	if result.Skipped > 0 {
		fmt.Printf(" (%d skipped)", result.Skipped)
	}
	fmt.Println()
	return nil
}
