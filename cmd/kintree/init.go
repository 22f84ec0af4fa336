package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new kintree workspace",
		Long:  "Creates a .kintree directory with default configuration. Trees are created separately with 'kintree trees create'.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("kintree already initialized in %s", cwd)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))
	fmt.Println("Kintree initialized successfully!")
	fmt.Println("Use 'kintree trees create NAME' to create your first family tree.")

	return nil
}
