package handlers

import (
	"context"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/services"
)

// RelationshipHandler handles explicit relationship edge operations.
type RelationshipHandler struct {
	service *services.RelationshipService
	people  *services.PersonService
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(service *services.RelationshipService, people *services.PersonService) *RelationshipHandler {
	return &RelationshipHandler{
		service: service,
		people:  people,
	}
}

// HandleCreate records a relationship between two people referenced by ID or
// name. The type string must name an explicit kind.
func (h *RelationshipHandler) HandleCreate(
	ctx context.Context,
	treeID string,
	fromRef string,
	relType string,
	toRef string,
	input services.RelationshipInput,
) (*entities.Relationship, error) {
	rt, err := entities.ParseRelationType(relType)
	if err != nil {
		return nil, err
	}

	from, err := h.people.Resolve(ctx, treeID, fromRef)
	if err != nil {
		return nil, err
	}
	to, err := h.people.Resolve(ctx, treeID, toRef)
	if err != nil {
		return nil, err
	}

	return h.service.Create(ctx, from.ID, rt, to.ID, input)
}

// HandleDelete removes a relationship edge by ID.
func (h *RelationshipHandler) HandleDelete(ctx context.Context, id string) error {
	return h.service.Delete(ctx, id)
}

// HandleCount returns the total number of edges.
func (h *RelationshipHandler) HandleCount(ctx context.Context) (int, error) {
	return h.service.Count(ctx)
}
