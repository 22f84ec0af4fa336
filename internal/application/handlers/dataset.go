package handlers

import (
	"context"
	"fmt"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/ports"
)

// Dataset is the JSON export/import shape: the whole tree as two sequences.
type Dataset struct {
	People        []entities.Person       `json:"people"`
	Relationships []entities.Relationship `json:"relationships"`
}

// ImportStats summarizes an import.
type ImportStats struct {
	People        int `json:"people"`
	Relationships int `json:"relationships"`
}

// DatasetHandler exports and imports whole trees.
type DatasetHandler struct {
	relationalDB ports.RelationalDB
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(relationalDB ports.RelationalDB) *DatasetHandler {
	return &DatasetHandler{relationalDB: relationalDB}
}

// HandleExport loads the full dataset of a tree.
func (h *DatasetHandler) HandleExport(ctx context.Context, treeID string) (*Dataset, error) {
	people, err := h.relationalDB.AllPeople(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("loading people: %w", err)
	}
	relationships, err := h.relationalDB.AllRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading relationships: %w", err)
	}
	return &Dataset{People: people, Relationships: relationships}, nil
}

// HandleImport writes a dataset into a tree. People are written before
// relationships so edges never reference a person the store hasn't seen;
// existing records with the same ID are overwritten.
func (h *DatasetHandler) HandleImport(ctx context.Context, treeID string, dataset *Dataset) (*ImportStats, error) {
	stats := &ImportStats{}
	for i := range dataset.People {
		person := dataset.People[i]
		person.TreeID = treeID
		if person.NormalizedName == "" {
			person.NormalizedName = entities.NormalizeName(person.Name)
		}
		if err := h.relationalDB.SavePerson(ctx, &person); err != nil {
			return nil, fmt.Errorf("importing person %s: %w", person.ID, err)
		}
		stats.People++
	}
	for i := range dataset.Relationships {
		rel := dataset.Relationships[i]
		if err := h.relationalDB.SaveRelationship(ctx, &rel); err != nil {
			return nil, fmt.Errorf("importing relationship %s: %w", rel.ID, err)
		}
		stats.Relationships++
	}
	return stats, nil
}
