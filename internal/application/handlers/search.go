package handlers

import (
	"context"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/services"
)

// SearchHandler handles semantic profile search.
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchResult contains profile search hits ordered by similarity.
type SearchResult struct {
	Matches []entities.ProfileMatch `json:"matches"`
}

// HandleSearch embeds the query and returns the closest profiles.
func (h *SearchHandler) HandleSearch(ctx context.Context, query string, limit int) (*SearchResult, error) {
	matches, err := h.service.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Matches: matches}, nil
}
