package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/services"
)

type relateFlags struct {
	start    string
	end      string
	notes    string
	inactive bool
	meta     []string
}

func newRelateCmd() *cobra.Command {
	var flags relateFlags

	cmd := &cobra.Command{
		Use:   "relate FROM TYPE TO",
		Short: "Record a relationship between two people",
		Long: `Records an explicit relationship edge. People may be referenced by ID or name.

For parent-like types the edge reads FROM is the parent of TO.

Valid types: ` + joinTypes() + `

Examples:
  kintree -t hart relate "Alice Hart" parent "Ben Hart"
  kintree -t hart relate "Alice Hart" spouse "Cleo Hart" --start 1954-06-12`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "Free-form notes")
	cmd.Flags().BoolVar(&flags.inactive, "inactive", false, "Mark the relationship as no longer active")
	cmd.Flags().StringArrayVar(&flags.meta, "meta", nil, "Metadata as key=value (repeatable)")

	cmd.AddCommand(newRelateDeleteCmd())

	return cmd
}

func joinTypes() string {
	types := make([]string, len(entities.ExplicitRelationTypes))
	for i, t := range entities.ExplicitRelationTypes {
		types[i] = string(t)
	}
	return strings.Join(types, ", ")
}

func runRelate(cmd *cobra.Command, args []string, flags relateFlags) error {
	ctx := cmd.Context()
	fromRef, relType, toRef := args[0], args[1], args[2]

	input := services.RelationshipInput{
		Notes: flags.notes,
	}

	if flags.start != "" {
		start, err := time.Parse("2006-01-02", flags.start)
		if err != nil {
			return fmt.Errorf("invalid start date: %s (expected YYYY-MM-DD)", flags.start)
		}
		input.StartDate = &start
	}
	if flags.end != "" {
		end, err := time.Parse("2006-01-02", flags.end)
		if err != nil {
			return fmt.Errorf("invalid end date: %s (expected YYYY-MM-DD)", flags.end)
		}
		input.EndDate = &end
	}
	if flags.inactive {
		active := false
		input.Active = &active
	}
	if len(flags.meta) > 0 {
		input.Metadata = make(map[string]string, len(flags.meta))
		for _, kv := range flags.meta {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid metadata: %s (expected key=value)", kv)
			}
			input.Metadata[key] = value
		}
	}

	return withRelationshipHandler(func(handler *handlers.RelationshipHandler) error {
		rel, err := handler.HandleCreate(ctx, globalTree, fromRef, relType, toRef, input)
		if err != nil {
			return fmt.Errorf("recording relationship: %w", err)
		}
		fmt.Printf("Recorded %s -[%s]-> %s (id: %s)\n", fromRef, rel.Type, toRef, rel.ID)
		return nil
	})
}

func newRelateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a relationship edge by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRelationshipHandler(func(handler *handlers.RelationshipHandler) error {
				if err := handler.HandleDelete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("deleting relationship: %w", err)
				}
				fmt.Printf("Deleted relationship %s\n", args[0])
				return nil
			})
		},
	}
}
