package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kintreehq/kintree/internal/application/handlers"
	"github.com/kintreehq/kintree/internal/domain/services"
	"github.com/kintreehq/kintree/internal/infrastructure/config"
	embedder "github.com/kintreehq/kintree/internal/infrastructure/embedder/openai"
	"github.com/kintreehq/kintree/internal/infrastructure/mediastore"
	"github.com/kintreehq/kintree/internal/infrastructure/relationaldb/sqlite"
	"github.com/kintreehq/kintree/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config *config.Config
	Trees  *config.TreesConfig
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	vectorDB      *qdrant.Repository
	relationalDB  *sqlite.Repository
	embedder      *embedder.Embedder
	media         *mediastore.Store
	people        *services.PersonService
	relationships *services.RelationshipService
}

// withInternalDeps loads config and builds dependencies for the selected
// tree, then calls the provided function. It handles cleanup automatically.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if globalTree == "" {
		return errors.New("tree is required (use --tree flag)")
	}

	collection, err := trees.GetCollection(globalTree)
	if err != nil {
		return err
	}

	qdrantCfg := cfg.Qdrant
	qdrantCfg.Collection = collection

	vectorDB, err := qdrant.NewRepository(qdrantCfg)
	if err != nil {
		return fmt.Errorf("creating qdrant repository: %w", err)
	}
	defer vectorDB.Close()

	if err := os.MkdirAll(config.TreeDir(cwd, globalTree), 0755); err != nil {
		return fmt.Errorf("creating tree directory: %w", err)
	}

	relationalDB, err := sqlite.NewRepository(config.SQLiteConfig{Path: config.SQLitePathForTree(cwd, globalTree)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer relationalDB.Close()

	if err := relationalDB.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	media, err := mediastore.NewStore(config.PhotoDirForTree(cwd, globalTree))
	if err != nil {
		return fmt.Errorf("creating media store: %w", err)
	}

	emb, err := embedder.NewEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	deps := &internalDeps{
		Deps: Deps{
			Config: cfg,
			Trees:  trees,
		},
		vectorDB:      vectorDB,
		relationalDB:  relationalDB,
		embedder:      emb,
		media:         media,
		people:        services.NewPersonService(relationalDB, vectorDB, emb, media),
		relationships: services.NewRelationshipService(relationalDB),
	}

	return fn(deps)
}

// withPersonHandler provides access to the PersonHandler for person and
// photo commands.
func withPersonHandler(fn func(*handlers.PersonHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(handlers.NewPersonHandler(d.people))
	})
}

// withRelationshipHandler provides access to the RelationshipHandler for
// edge commands.
func withRelationshipHandler(fn func(*handlers.RelationshipHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(handlers.NewRelationshipHandler(d.relationships, d.people))
	})
}

// withRelationsHandler provides access to the RelationsHandler for kinship
// query and rendering commands.
func withRelationsHandler(fn func(*handlers.RelationsHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(handlers.NewRelationsHandler(d.relationships, d.people))
	})
}

// withSearchHandler provides access to the SearchHandler.
func withSearchHandler(fn func(*handlers.SearchHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(handlers.NewSearchHandler(services.NewSearchService(d.embedder, d.vectorDB)))
	})
}

// withDatasetHandler provides access to the DatasetHandler for export and
// import.
func withDatasetHandler(fn func(*handlers.DatasetHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(handlers.NewDatasetHandler(d.relationalDB))
	})
}
