package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/kinship"
	"github.com/kintreehq/kintree/internal/domain/ports"
)

// RelationshipService manages explicit relationship edges and builds kinship
// resolvers over the stored dataset. All derivation logic lives in the
// resolver; this service only guards the invariants the resolver assumes
// (no self-edges, endpoints exist, no duplicate edges).
type RelationshipService struct {
	relationalDB ports.RelationalDB
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(relationalDB ports.RelationalDB) *RelationshipService {
	return &RelationshipService{relationalDB: relationalDB}
}

// RelationshipInput carries the optional fields of an edge.
type RelationshipInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Notes     string
	Active    *bool
	Metadata  map[string]string
}

// Create records a relationship edge between two existing people. For
// parent-like kinds fromID must be the parent; for guardian and godparent
// kinds fromID is the guardian or godparent.
func (s *RelationshipService) Create(
	ctx context.Context,
	fromID string,
	relType entities.RelationType,
	toID string,
	input RelationshipInput,
) (*entities.Relationship, error) {
	if fromID == toID {
		return nil, errors.New("a person cannot have a relationship with themselves")
	}

	for _, id := range []string{fromID, toID} {
		person, err := s.relationalDB.FindPersonByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("checking person exists: %w", err)
		}
		if person == nil {
			return nil, fmt.Errorf("person not found: %s", id)
		}
	}

	existing, err := s.relationalDB.FindRelationshipBetween(ctx, fromID, toID, relType)
	if err != nil {
		return nil, fmt.Errorf("checking existing relationship: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("relationship already exists between these people (id: %s)", existing.ID)
	}

	rel := &entities.Relationship{
		ID:        uuid.New().String(),
		FromID:    fromID,
		ToID:      toID,
		Type:      relType,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Notes:     input.Notes,
		Active:    input.Active,
		Metadata:  input.Metadata,
		CreatedAt: time.Now(),
	}

	if err := s.relationalDB.SaveRelationship(ctx, rel); err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}

	return rel, nil
}

// Delete removes a relationship edge by ID.
func (s *RelationshipService) Delete(ctx context.Context, id string) error {
	return s.relationalDB.DeleteRelationship(ctx, id)
}

// ListByPerson returns every edge touching a person, in stored order.
func (s *RelationshipService) ListByPerson(ctx context.Context, personID string) ([]entities.Relationship, error) {
	return s.relationalDB.FindRelationshipsByPerson(ctx, personID)
}

// Count returns the total number of edges.
func (s *RelationshipService) Count(ctx context.Context) (int, error) {
	return s.relationalDB.CountRelationships(ctx)
}

// Resolver loads a fresh snapshot of the tree and builds a kinship resolver
// over it. The resolver is immutable; call again after any edit.
func (s *RelationshipService) Resolver(ctx context.Context, treeID string) (*kinship.Resolver, error) {
	people, err := s.relationalDB.AllPeople(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("loading people: %w", err)
	}
	relationships, err := s.relationalDB.AllRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading relationships: %w", err)
	}
	return kinship.NewResolver(people, relationships), nil
}
