package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tree as JSON",
		Long:  "Exports every person and relationship in the tree as a JSON dataset suitable for 'kintree import'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, output string) error {
	ctx := cmd.Context()

	return withDatasetHandler(func(handler *handlers.DatasetHandler) (err error) {
		dataset, err := handler.HandleExport(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("exporting tree: %w", err)
		}

		var w io.Writer = os.Stdout
		if output != "" {
			var f *os.File
			f, err = os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("closing file: %w", cerr)
				}
			}()
			w = f
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(dataset); err != nil {
			return fmt.Errorf("encoding dataset: %w", err)
		}

		if output != "" {
			fmt.Printf("Exported %d people and %d relationships to %s\n",
				len(dataset.People), len(dataset.Relationships), output)
		}

		return nil
	})
}
