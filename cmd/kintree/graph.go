package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
	"github.com/kintreehq/kintree/internal/infrastructure/render"
)

func newGraphCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the whole tree as a graphviz digraph",
		Long: `Writes a DOT digraph of the tree to stdout or a file.

Examples:
  kintree -t hart graph
  kintree -t hart graph -o hart.dot && dot -Tpng hart.dot -o hart.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func runGraph(cmd *cobra.Command, output string) error {
	ctx := cmd.Context()

	return withRelationsHandler(func(handler *handlers.RelationsHandler) error {
		_, _, resolver, err := handler.HandleSnapshot(ctx, globalTree)
		if err != nil {
			return err
		}

		dot := render.DOT(resolver)

		if output == "" {
			fmt.Print(dot)
			return nil
		}

		if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
			return fmt.Errorf("writing graph file: %w", err)
		}
		fmt.Printf("Wrote %s\n", output)
		return nil
	})
}
