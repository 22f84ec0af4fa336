package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
)

type relationsFlags struct {
	relType     string
	derivedOnly bool
	format      string
}

func newRelationsCmd() *cobra.Command {
	var flags relationsFlags

	cmd := &cobra.Command{
		Use:   "relations PERSON",
		Short: "List relationships for a person",
		Long: `Shows every relationship a person has, explicit and derived.

Explicit edges are listed first; derived entries (siblings, grandparents,
grandchildren) are marked with an asterisk.

Examples:
  kintree -t hart relations "Alice Hart"
  kintree -t hart relations "Alice Hart" --type sibling
  kintree -t hart relations "Alice Hart" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.relType, "type", "", "Filter by relationship type")
	cmd.Flags().BoolVar(&flags.derivedOnly, "derived", false, "Show only derived relationships")
	cmd.Flags().StringVar(&flags.format, "format", "tree", "Output format: tree, list, json")

	return cmd
}

func runRelations(cmd *cobra.Command, args []string, flags relationsFlags) error {
	ctx := cmd.Context()
	personRef := args[0]

	validFormats := map[string]bool{"tree": true, "list": true, "json": true}
	if !validFormats[flags.format] {
		return fmt.Errorf("invalid format: %s (valid: tree, list, json)", flags.format)
	}

	return withRelationsHandler(func(handler *handlers.RelationsHandler) error {
		opts := handlers.ListOptions{
			Type:        flags.relType,
			DerivedOnly: flags.derivedOnly,
		}

		result, err := handler.HandleList(ctx, globalTree, personRef, opts)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		if len(result.Relations) == 0 {
			fmt.Printf("No relationships found for: %s\n", result.Person.Name)
			return nil
		}

		return printRelations(result, flags.format)
	})
}

func printRelations(result *handlers.RelationsResult, format string) error {
	switch format {
	case "json":
		return printRelationsJSON(result)
	case "list":
		return printRelationsList(result)
	default:
		return printRelationsTree(result)
	}
}

func printRelationsJSON(result *handlers.RelationsResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printRelationsList(result *handlers.RelationsResult) error {
	fmt.Printf("Relationships for %s:\n", result.Person.Name)
	fmt.Println(strings.Repeat("-", 60))

	for _, rel := range result.Relations {
		marker := ""
		if rel.Derived {
			marker = " *"
		}
		fmt.Printf("%-20s %s%s\n", rel.Label, rel.Person.Name, marker)
	}
	fmt.Println()
	fmt.Println("* derived")
	return nil
}

func printRelationsTree(result *handlers.RelationsResult) error {
	fmt.Printf("%s\n", result.Person.Name)

	for i, rel := range result.Relations {
		isLast := i == len(result.Relations)-1

		prefix := "+-"
		if isLast {
			prefix = "\\-"
		}

		marker := ""
		if rel.Derived {
			marker = " *"
		}

		fmt.Printf("%s %s%s -> %s\n", prefix, rel.Label, marker, rel.Person.Name)
	}

	return nil
}
