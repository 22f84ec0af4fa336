package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search people by biography",
		Long: `Semantic search over person profiles. Only people with a biography
are indexed.

Examples:
  kintree -t hart search "worked as a carpenter"
  kintree -t hart search "emigrated after the war" --limit 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSearchHandler(func(handler *handlers.SearchHandler) error {
				result, err := handler.HandleSearch(cmd.Context(), args[0], limit)
				if err != nil {
					return fmt.Errorf("searching profiles: %w", err)
				}

				if len(result.Matches) == 0 {
					fmt.Println("No matches found.")
					return nil
				}

				for _, match := range result.Matches {
					fmt.Printf("%.3f  %s\n", match.Score, match.Profile.Name)
					if match.Profile.Biography != "" {
						fmt.Printf("       %s\n", match.Profile.Biography)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum number of matches")

	return cmd
}
