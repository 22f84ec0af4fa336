package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
	"github.com/kintreehq/kintree/internal/infrastructure/render"
)

type treeFlags struct {
	direction string
	depth     int
}

func newTreeCmd() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "tree PERSON",
		Short: "Print an ancestor or descendant tree for a person",
		Long: `Renders a text tree starting from a person.

Examples:
  kintree -t hart tree "Alice Hart"
  kintree -t hart tree "Alice Hart" --direction ancestors --depth 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.direction, "direction", "descendants", "Direction: ancestors, descendants")
	cmd.Flags().IntVar(&flags.depth, "depth", 5, "Maximum generations (1-10)")

	return cmd
}

func runTree(cmd *cobra.Command, personRef string, flags treeFlags) error {
	ctx := cmd.Context()

	if flags.depth < 1 || flags.depth > 10 {
		return errors.New("depth must be between 1 and 10")
	}
	if flags.direction != "ancestors" && flags.direction != "descendants" {
		return fmt.Errorf("invalid direction: %s (valid: ancestors, descendants)", flags.direction)
	}

	return withRelationsHandler(func(handler *handlers.RelationsHandler) error {
		person, resolver, err := handler.HandleResolver(ctx, globalTree, personRef)
		if err != nil {
			return err
		}

		layout := render.NewLayout(flags.depth)
		if flags.direction == "ancestors" {
			fmt.Print(layout.Ancestors(resolver, *person))
		} else {
			fmt.Print(layout.Descendants(resolver, *person))
		}
		return nil
	})
}
