package services

import (
	"context"
	"fmt"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/ports"
)

// SearchService performs semantic search over person profiles.
type SearchService struct {
	embedder ports.Embedder
	vectorDB ports.VectorDB
}

// NewSearchService creates a new SearchService.
func NewSearchService(embedder ports.Embedder, vectorDB ports.VectorDB) *SearchService {
	return &SearchService{
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// Search embeds the query text and returns the closest profiles.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]entities.ProfileMatch, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.vectorDB.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching profiles: %w", err)
	}

	return matches, nil
}
