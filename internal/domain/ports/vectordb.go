package ports

import (
	"context"

	"github.com/kintreehq/kintree/internal/domain/entities"
)

// VectorDB defines the interface for the profile search index.
type VectorDB interface {
	// EnsureCollection creates the collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// DeleteCollection removes the collection and all profiles in it.
	DeleteCollection(ctx context.Context) error

	// SaveProfile stores a person's profile document with its embedding.
	SaveProfile(ctx context.Context, profile *entities.Profile) error

	// Search returns the profiles most similar to the query embedding.
	Search(ctx context.Context, embedding []float32, limit int) ([]entities.ProfileMatch, error)

	// Delete removes a profile by person ID.
	Delete(ctx context.Context, personID string) error

	// Close closes the connection.
	Close() error
}
