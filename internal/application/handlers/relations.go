package handlers

import (
	"context"
	"fmt"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/kinship"
	"github.com/kintreehq/kintree/internal/domain/services"
)

// RelationsHandler answers kinship queries by building a resolver over a
// fresh snapshot of the tree.
type RelationsHandler struct {
	relationships *services.RelationshipService
	people        *services.PersonService
}

// NewRelationsHandler creates a new RelationsHandler.
func NewRelationsHandler(relationships *services.RelationshipService, people *services.PersonService) *RelationsHandler {
	return &RelationsHandler{
		relationships: relationships,
		people:        people,
	}
}

// RelationEntry is one relationship with its display label.
type RelationEntry struct {
	Person  entities.Person       `json:"person"`
	Type    entities.RelationType `json:"type"`
	Label   string                `json:"label"`
	Derived bool                  `json:"derived"`
}

// RelationsResult contains every relationship of one person, explicit
// entries first.
type RelationsResult struct {
	Person    entities.Person `json:"person"`
	Relations []RelationEntry `json:"relations"`
}

// ListOptions configures relation listing.
type ListOptions struct {
	Type        string // Filter by kind tag (empty = all)
	DerivedOnly bool   // Keep only inferred relationships
}

// HandleList returns every relationship the referenced person has, explicit
// and derived, from that person's perspective.
func (h *RelationsHandler) HandleList(ctx context.Context, treeID, ref string, opts ListOptions) (*RelationsResult, error) {
	person, err := h.people.Resolve(ctx, treeID, ref)
	if err != nil {
		return nil, err
	}

	resolver, err := h.relationships.Resolver(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("building resolver: %w", err)
	}

	relations := resolver.RelationshipsFor(person.ID)
	result := &RelationsResult{
		Person:    *person,
		Relations: make([]RelationEntry, 0, len(relations)),
	}
	for _, rel := range relations {
		if opts.Type != "" && string(rel.Type) != opts.Type {
			continue
		}
		if opts.DerivedOnly && !rel.Derived {
			continue
		}
		result.Relations = append(result.Relations, RelationEntry{
			Person:  rel.Person,
			Type:    rel.Type,
			Label:   entities.Label(rel.Type),
			Derived: rel.Derived,
		})
	}
	return result, nil
}

// HandleResolver resolves the person reference and returns a resolver over
// the current snapshot, for callers that walk the tree themselves (renderers).
func (h *RelationsHandler) HandleResolver(ctx context.Context, treeID, ref string) (*entities.Person, *kinship.Resolver, error) {
	person, err := h.people.Resolve(ctx, treeID, ref)
	if err != nil {
		return nil, nil, err
	}
	resolver, err := h.relationships.Resolver(ctx, treeID)
	if err != nil {
		return nil, nil, fmt.Errorf("building resolver: %w", err)
	}
	return person, resolver, nil
}

// HandleSnapshot returns the full dataset for whole-tree renderings.
func (h *RelationsHandler) HandleSnapshot(ctx context.Context, treeID string) ([]entities.Person, []entities.Relationship, *kinship.Resolver, error) {
	resolver, err := h.relationships.Resolver(ctx, treeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building resolver: %w", err)
	}
	return resolver.People(), resolver.Relationships(), resolver, nil
}
