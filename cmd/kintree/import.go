package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON dataset into the tree",
		Long:  "Imports people and relationships from a dataset produced by 'kintree export'. Records with known IDs are overwritten.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, filePath string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading dataset file: %w", err)
	}

	var dataset handlers.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return fmt.Errorf("parsing dataset file: %w", err)
	}

	return withDatasetHandler(func(handler *handlers.DatasetHandler) error {
		fmt.Printf("Importing %s...\n", filePath)

		stats, err := handler.HandleImport(ctx, globalTree, &dataset)
		if err != nil {
			return fmt.Errorf("importing dataset: %w", err)
		}

		fmt.Printf("Imported %d people and %d relationships\n", stats.People, stats.Relationships)
		return nil
	})
}
