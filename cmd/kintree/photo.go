package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/application/handlers"
)

func newPhotoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo",
		Short: "Manage person photos",
	}

	cmd.AddCommand(
		newPhotoAttachCmd(),
		newPhotoRemoveCmd(),
	)

	return cmd
}

func newPhotoAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach PERSON FILE",
		Short: "Attach a photo to a person",
		Long:  "Reads an image file (JPEG, PNG, or GIF), normalizes it, and stores it as the person's photo. A previous photo is replaced.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			personRef, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening image file: %w", err)
			}
			defer f.Close()

			return withPersonHandler(func(handler *handlers.PersonHandler) error {
				person, err := handler.HandleAttachPhoto(cmd.Context(), globalTree, personRef, f)
				if err != nil {
					return fmt.Errorf("attaching photo: %w", err)
				}
				fmt.Printf("Attached photo %s to %s\n", person.PhotoID, person.Name)
				return nil
			})
		},
	}
}

func newPhotoRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove PERSON",
		Short: "Remove a person's photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPersonHandler(func(handler *handlers.PersonHandler) error {
				if err := handler.HandleRemovePhoto(cmd.Context(), globalTree, args[0]); err != nil {
					return fmt.Errorf("removing photo: %w", err)
				}
				fmt.Println("Photo removed.")
				return nil
			})
		},
	}
}
