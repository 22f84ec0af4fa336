package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/services"
)

type handlerFixture struct {
	db        *fakeRelationalDB
	people    *services.PersonService
	relations *RelationsHandler
	edges     *RelationshipHandler
}

func newHandlerFixture() *handlerFixture {
	db := newFakeRelationalDB()
	people := services.NewPersonService(db, fakeVectorDB{}, fakeEmbedder{}, fakeMediaStore{})
	relationships := services.NewRelationshipService(db)
	return &handlerFixture{
		db:        db,
		people:    people,
		relations: NewRelationsHandler(relationships, people),
		edges:     NewRelationshipHandler(relationships, people),
	}
}

func (f *handlerFixture) addPerson(t *testing.T, name string) *entities.Person {
	t.Helper()
	person, err := f.people.Create(context.Background(), "hart", services.PersonInput{Name: name})
	require.NoError(t, err)
	return person
}

func TestRelationshipHandler_HandleCreate(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	f.addPerson(t, "Alice")
	f.addPerson(t, "Ben")

	t.Run("resolves names and records the edge", func(t *testing.T) {
		rel, err := f.edges.HandleCreate(ctx, "hart", "Alice", "parent", "Ben", services.RelationshipInput{})
		require.NoError(t, err)
		assert.Equal(t, entities.RelationParent, rel.Type)

		count, err := f.edges.HandleCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("rejects derived kinds", func(t *testing.T) {
		_, err := f.edges.HandleCreate(ctx, "hart", "Alice", "sibling", "Ben", services.RelationshipInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid relationship type")
	})

	t.Run("rejects unknown people", func(t *testing.T) {
		_, err := f.edges.HandleCreate(ctx, "hart", "Alice", "spouse", "Nobody", services.RelationshipInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "person not found")
	})
}

func TestRelationsHandler_HandleList(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	alice := f.addPerson(t, "Alice")
	ben := f.addPerson(t, "Ben")
	cleo := f.addPerson(t, "Cleo")

	// Alice is a parent of Ben and Cleo.
	_, err := f.edges.HandleCreate(ctx, "hart", alice.ID, "parent", ben.ID, services.RelationshipInput{})
	require.NoError(t, err)
	_, err = f.edges.HandleCreate(ctx, "hart", alice.ID, "parent", cleo.ID, services.RelationshipInput{})
	require.NoError(t, err)

	t.Run("explicit before derived with labels", func(t *testing.T) {
		result, err := f.relations.HandleList(ctx, "hart", "Ben", ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Relations, 2)

		assert.Equal(t, entities.RelationParent, result.Relations[0].Type)
		assert.Equal(t, "Parent", result.Relations[0].Label)
		assert.False(t, result.Relations[0].Derived)

		assert.Equal(t, entities.RelationSibling, result.Relations[1].Type)
		assert.Equal(t, "Cleo", result.Relations[1].Person.Name)
		assert.True(t, result.Relations[1].Derived)
	})

	t.Run("type filter", func(t *testing.T) {
		result, err := f.relations.HandleList(ctx, "hart", "Ben", ListOptions{Type: "sibling"})
		require.NoError(t, err)
		require.Len(t, result.Relations, 1)
		assert.Equal(t, entities.RelationSibling, result.Relations[0].Type)
	})

	t.Run("derived only", func(t *testing.T) {
		result, err := f.relations.HandleList(ctx, "hart", alice.ID, ListOptions{DerivedOnly: true})
		require.NoError(t, err)
		assert.Empty(t, result.Relations)
	})

	t.Run("unknown person", func(t *testing.T) {
		_, err := f.relations.HandleList(ctx, "hart", "Nobody", ListOptions{})
		require.Error(t, err)
	})
}

func TestRelationsHandler_HandleSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newHandlerFixture()
	alice := f.addPerson(t, "Alice")
	ben := f.addPerson(t, "Ben")

	_, err := f.edges.HandleCreate(ctx, "hart", alice.ID, "spouse", ben.ID, services.RelationshipInput{})
	require.NoError(t, err)

	people, relationships, resolver, err := f.relations.HandleSnapshot(ctx, "hart")
	require.NoError(t, err)
	assert.Len(t, people, 2)
	assert.Len(t, relationships, 1)
	require.NotNil(t, resolver)

	spouse := resolver.Spouse(alice.ID)
	require.NotNil(t, spouse)
	assert.Equal(t, ben.ID, spouse.ID)
}
