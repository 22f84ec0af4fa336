package ports

import (
	"context"

	"github.com/kintreehq/kintree/internal/domain/entities"
)

// RelationalDB defines the interface for the people and relationship store.
// Each family tree has its own database file, so none of the relationship
// operations take a tree argument.
type RelationalDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Person operations

	// SavePerson inserts or updates a person.
	SavePerson(ctx context.Context, person *entities.Person) error

	// FindPersonByID finds a person by ID. Returns nil if not found.
	FindPersonByID(ctx context.Context, personID string) (*entities.Person, error)

	// FindPersonByName finds a person by display name (case-insensitive).
	// Returns nil if not found.
	FindPersonByName(ctx context.Context, treeID, name string) (*entities.Person, error)

	// ListPeople lists people ordered by name with pagination.
	ListPeople(ctx context.Context, treeID string, limit, offset int) ([]*entities.Person, error)

	// SearchPeople searches people by name pattern.
	SearchPeople(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error)

	// AllPeople returns every person in the tree, for resolver snapshots.
	AllPeople(ctx context.Context, treeID string) ([]entities.Person, error)

	// DeletePerson deletes a person by ID.
	DeletePerson(ctx context.Context, personID string) error

	// CountPeople returns the number of people in the tree.
	CountPeople(ctx context.Context, treeID string) (int, error)

	// Relationship operations

	// SaveRelationship inserts or updates a relationship edge.
	SaveRelationship(ctx context.Context, rel *entities.Relationship) error

	// FindRelationshipsByPerson finds every edge touching a person as either
	// endpoint, in stored order.
	FindRelationshipsByPerson(ctx context.Context, personID string) ([]entities.Relationship, error)

	// FindRelationshipBetween finds an edge of the given type between two
	// people, checking both directions. Returns nil if none exists.
	FindRelationshipBetween(ctx context.Context, aID, bID string, relType entities.RelationType) (*entities.Relationship, error)

	// AllRelationships returns every edge in insertion order, for resolver
	// snapshots.
	AllRelationships(ctx context.Context) ([]entities.Relationship, error)

	// DeleteRelationship deletes an edge by ID.
	DeleteRelationship(ctx context.Context, id string) error

	// DeleteRelationshipsByPerson deletes every edge touching a person.
	DeleteRelationshipsByPerson(ctx context.Context, personID string) error

	// CountRelationships returns the total number of edges.
	CountRelationships(ctx context.Context) (int, error)
}
