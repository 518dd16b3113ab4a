package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/arkadas/tempo/internal/storage"
)

// Execute implements the go-flags Commander interface for TagsCommand.
func (c *TagsCommand) Execute(args []string) error {
	store, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs tags against a provided store (for testing).
func (c *TagsCommand) executeWithStore(store storage.Store) error {
	tags, err := store.ListAllTags(context.Background())
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tags)
	}

	if len(tags) == 0 {
		fmt.Println("No tags recorded")
		return nil
	}
	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}
