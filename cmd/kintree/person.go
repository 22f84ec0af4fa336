package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/services"
)

type personFlags struct {
	legalName string
	nickname  string
	gender    string
	born      string
	died      string
	alive     bool
	biography string
}

func (f *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.legalName, "legal-name", "", "Full legal name")
	cmd.Flags().StringVar(&f.nickname, "nickname", "", "Nickname")
	cmd.Flags().StringVar(&f.gender, "gender", "", "Gender: male, female, other")
	cmd.Flags().StringVar(&f.born, "born", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.died, "died", "", "Death date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.alive, "alive", false, "Whether the person is alive")
	cmd.Flags().StringVar(&f.biography, "bio", "", "Short biography (enables semantic search)")
}

// input converts the flags to a service input. The alive flag is tri-state:
// unset means unknown.
func (f *personFlags) input(cmd *cobra.Command, name string) (services.PersonInput, error) {
	input := services.PersonInput{
		Name:      name,
		LegalName: f.legalName,
		Nickname:  f.nickname,
		Gender:    entities.Gender(f.gender),
		Biography: f.biography,
	}

	if f.born != "" {
		born, err := time.Parse("2006-01-02", f.born)
		if err != nil {
			return input, fmt.Errorf("invalid birth date: %s (expected YYYY-MM-DD)", f.born)
		}
		input.BirthDate = &born
	}
	if f.died != "" {
		died, err := time.Parse("2006-01-02", f.died)
		if err != nil {
			return input, fmt.Errorf("invalid death date: %s (expected YYYY-MM-DD)", f.died)
		}
		input.DeathDate = &died
	}
	if cmd.Flags().Changed("alive") {
		alive := f.alive
		input.Alive = &alive
	}

	return input, nil
}

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage people in a family tree",
	}

	cmd.AddCommand(
		newPersonAddCmd(),
		newPersonUpdateCmd(),
		newPersonShowCmd(),
		newPersonListCmd(),
		newPersonDeleteCmd(),
	)

	return cmd
}

func newPersonAddCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a person to the tree",
		Long: `Adds a new person. The display name must be unique within the tree.

Examples:
  kintree -t hart person add "Alice Hart" --born 1932-04-01 --gender female
  kintree -t hart person add "Ben Hart" --bio "Carpenter, moved to Leeds in 1956."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.input(cmd, args[0])
			if err != nil {
				return err
			}
			return withPersonHandler(func(handler *handlers.PersonHandler) error {
				person, err := handler.HandleAdd(cmd.Context(), globalTree, input)
				if err != nil {
					return fmt.Errorf("adding person: %w", err)
				}
				fmt.Printf("Added %s (id: %s)\n", person.Name, person.ID)
				return nil
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newPersonUpdateCmd() *cobra.Command {
	var flags personFlags
	var newName string

	cmd := &cobra.Command{
		Use:   "update PERSON",
		Short: "Update a person's details",
		Long:  "Updates a person referenced by ID or name. All fields are replaced by the given flags.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := newName
			if name == "" {
				name = args[0]
			}
			input, err := flags.input(cmd, name)
			if err != nil {
				return err
			}
			return withPersonHandler(func(handler *handlers.PersonHandler) error {
				person, err := handler.HandleUpdate(cmd.Context(), globalTree, args[0], input)
				if err != nil {
					return fmt.Errorf("updating person: %w", err)
				}
				fmt.Printf("Updated %s (id: %s)\n", person.Name, person.ID)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&newName, "name", "", "New display name")

	return cmd
}

func newPersonShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show PERSON",
		Short: "Show a person's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPersonHandler(func(handler *handlers.PersonHandler) error {
				person, err := handler.HandleShow(cmd.Context(), globalTree, args[0])
				if err != nil {
					return err
				}
				if format == "json" {
					data, err := json.MarshalIndent(person, "", "  ")
					if err != nil {
						return fmt.Errorf("marshaling JSON: %w", err)
					}
					fmt.Println(string(data))
					return nil
				}
				printPerson(person)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func printPerson(p *entities.Person) {
	fmt.Printf("%s", p.Name)
	if span := p.Lifespan(); span != "" {
		fmt.Printf(" (%s)", span)
	}
	fmt.Println()
	fmt.Printf("  ID:        %s\n", p.ID)
	if p.LegalName != "" {
		fmt.Printf("  Legal:     %s\n", p.LegalName)
	}
	if p.Nickname != "" {
		fmt.Printf("  Nickname:  %s\n", p.Nickname)
	}
	if p.Gender != "" {
		fmt.Printf("  Gender:    %s\n", p.Gender)
	}
	if p.Alive != nil {
		fmt.Printf("  Alive:     %t\n", *p.Alive)
	}
	if p.PhotoID != "" {
		fmt.Printf("  Photo:     %s\n", p.PhotoID)
	}
	if p.Biography != "" {
		fmt.Printf("  Biography: %s\n", p.Biography)
	}
}

func newPersonListCmd() *cobra.Command {
	var searchQuery string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people in the tree",
		Long: `Lists people sorted by name. Use --search to filter by name substring.

Examples:
  kintree -t hart person list
  kintree -t hart person list --search "Ali"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPersonHandler(func(handler *handlers.PersonHandler) error {
				var result *handlers.PersonListResult
				var err error

				if searchQuery != "" {
					result, err = handler.HandleSearch(cmd.Context(), globalTree, searchQuery, limit)
				} else {
					result, err = handler.HandleList(cmd.Context(), globalTree, limit, 0)
				}
				if err != nil {
					return fmt.Errorf("listing people: %w", err)
				}

				if len(result.People) == 0 {
					fmt.Println("No people found.")
					return nil
				}

				fmt.Printf("People (%d total):\n", result.Total)
				fmt.Println()
				for _, p := range result.People {
					span := p.Lifespan()
					if span != "" {
						span = " (" + span + ")"
					}
					fmt.Printf("  %-40s %s%s\n", p.ID[:8]+"...", p.Name, span)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&searchQuery, "search", "", "Search people by name")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of people to return")

	return cmd
}

func newPersonDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PERSON",
		Short: "Delete a person and all their relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPersonHandler(func(handler *handlers.PersonHandler) error {
				person, err := handler.HandleDelete(cmd.Context(), globalTree, args[0])
				if err != nil {
					return fmt.Errorf("deleting person: %w", err)
				}
				fmt.Printf("Deleted %s (id: %s)\n", person.Name, person.ID)
				return nil
			})
		},
	}
}
