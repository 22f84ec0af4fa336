package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/services"
)

// PersonHandler handles person operations.
type PersonHandler struct {
	service *services.PersonService
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(service *services.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// PersonListResult contains the result of listing people.
type PersonListResult struct {
	People []*entities.Person `json:"people"`
	Total  int                `json:"total"`
}

// HandleAdd creates a new person in a tree.
func (h *PersonHandler) HandleAdd(ctx context.Context, treeID string, input services.PersonInput) (*entities.Person, error) {
	return h.service.Create(ctx, treeID, input)
}

// HandleUpdate applies new field values to an existing person.
func (h *PersonHandler) HandleUpdate(ctx context.Context, treeID, ref string, input services.PersonInput) (*entities.Person, error) {
	person, err := h.service.Resolve(ctx, treeID, ref)
	if err != nil {
		return nil, err
	}
	return h.service.Update(ctx, person.ID, input)
}

// HandleShow resolves a person by ID or name.
func (h *PersonHandler) HandleShow(ctx context.Context, treeID, ref string) (*entities.Person, error) {
	return h.service.Resolve(ctx, treeID, ref)
}

// HandleList returns people in a tree with pagination.
func (h *PersonHandler) HandleList(ctx context.Context, treeID string, limit, offset int) (*PersonListResult, error) {
	people, err := h.service.List(ctx, treeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	total, err := h.service.Count(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("counting people: %w", err)
	}
	return &PersonListResult{People: people, Total: total}, nil
}

// HandleSearch searches people by name pattern.
func (h *PersonHandler) HandleSearch(ctx context.Context, treeID, query string, limit int) (*PersonListResult, error) {
	people, err := h.service.Search(ctx, treeID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching people: %w", err)
	}
	return &PersonListResult{People: people, Total: len(people)}, nil
}

// HandleDelete removes a person and everything attached to them.
func (h *PersonHandler) HandleDelete(ctx context.Context, treeID, ref string) (*entities.Person, error) {
	person, err := h.service.Resolve(ctx, treeID, ref)
	if err != nil {
		return nil, err
	}
	if err := h.service.Delete(ctx, person.ID); err != nil {
		return nil, err
	}
	return person, nil
}

// HandleAttachPhoto stores a photo for a person.
func (h *PersonHandler) HandleAttachPhoto(ctx context.Context, treeID, ref string, src io.Reader) (*entities.Person, error) {
	person, err := h.service.Resolve(ctx, treeID, ref)
	if err != nil {
		return nil, err
	}
	return h.service.AttachPhoto(ctx, person.ID, src)
}

// HandleRemovePhoto deletes a person's photo.
func (h *PersonHandler) HandleRemovePhoto(ctx context.Context, treeID, ref string) error {
	person, err := h.service.Resolve(ctx, treeID, ref)
	if err != nil {
		return err
	}
	return h.service.RemovePhoto(ctx, person.ID)
}
