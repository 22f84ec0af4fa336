// Package main provides the entry point for the kintree CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0-dev"
	globalTree string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "kintree",
		Short:   "A family tree manager with relationship inference and semantic search",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalTree, "tree", "t", "", "Family tree to operate on (required)")

	rootCmd.AddCommand(
		newInitCmd(),
		newTreesCmd(),
		newPersonCmd(),
		newRelateCmd(),
		newRelationsCmd(),
		newTreeCmd(),
		newGraphCmd(),
		newPhotoCmd(),
		newSearchCmd(),
		newExportCmd(),
		newImportCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
