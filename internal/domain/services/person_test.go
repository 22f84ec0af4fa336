package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintreehq/kintree/internal/domain/entities"
)

type personFixture struct {
	db     *testRelationalDB
	vector *testVectorDB
	embed  *testEmbedder
	media  *testMediaStore
	svc    *PersonService
}

func newPersonFixture() *personFixture {
	f := &personFixture{
		db:     newTestRelationalDB(),
		vector: newTestVectorDB(),
		embed:  &testEmbedder{},
		media:  newTestMediaStore(),
	}
	f.svc = NewPersonService(f.db, f.vector, f.embed, f.media)
	return f
}

func TestPersonService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and normalizes the name", func(t *testing.T) {
		f := newPersonFixture()

		person, err := f.svc.Create(ctx, "hart", PersonInput{Name: "  Alice Hart "})
		require.NoError(t, err)
		assert.NotEmpty(t, person.ID)
		assert.Equal(t, "hart", person.TreeID)
		assert.Equal(t, "alice hart", person.NormalizedName)

		stored, err := f.db.FindPersonByID(ctx, person.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		f := newPersonFixture()
		_, err := f.svc.Create(ctx, "hart", PersonInput{Name: "   "})
		require.Error(t, err)
	})

	t.Run("rejects unknown gender", func(t *testing.T) {
		f := newPersonFixture()
		_, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice", Gender: "unknown"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid gender")
	})

	t.Run("rejects death before birth", func(t *testing.T) {
		f := newPersonFixture()
		born := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
		died := born.AddDate(-1, 0, 0)
		_, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice", BirthDate: &born, DeathDate: &died})
		require.Error(t, err)
	})

	t.Run("rejects duplicate name in the same tree", func(t *testing.T) {
		f := newPersonFixture()
		_, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice Hart"})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, "hart", PersonInput{Name: "ALICE HART"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("same name in another tree is fine", func(t *testing.T) {
		f := newPersonFixture()
		_, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice Hart"})
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, "vane", PersonInput{Name: "Alice Hart"})
		require.NoError(t, err)
	})

	t.Run("biography is indexed", func(t *testing.T) {
		f := newPersonFixture()
		person, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice", Biography: "Emigrated in 1956."})
		require.NoError(t, err)

		profile, ok := f.vector.profiles[person.ID]
		require.True(t, ok)
		assert.Equal(t, "Alice", profile.Name)
		assert.Equal(t, "Emigrated in 1956.", profile.Biography)
		assert.NotEmpty(t, profile.Embedding)
	})

	t.Run("no biography means no index entry", func(t *testing.T) {
		f := newPersonFixture()
		person, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice"})
		require.NoError(t, err)
		_, ok := f.vector.profiles[person.ID]
		assert.False(t, ok)
	})

	t.Run("failed indexing rolls back the save", func(t *testing.T) {
		f := newPersonFixture()
		f.embed.embedErr = errors.New("embedder down")

		_, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice", Biography: "bio"})
		require.Error(t, err)

		found, err := f.db.FindPersonByName(ctx, "hart", "Alice")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestPersonService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown person", func(t *testing.T) {
		f := newPersonFixture()
		_, err := f.svc.Update(ctx, "nope", PersonInput{Name: "Alice"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "person not found")
	})

	t.Run("replaces fields and reindexes", func(t *testing.T) {
		f := newPersonFixture()
		person, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice"})
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, person.ID, PersonInput{
			Name:      "Alice Hart",
			Nickname:  "Ally",
			Biography: "Carpenter.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Hart", updated.Name)
		assert.Equal(t, "alice hart", updated.NormalizedName)
		assert.Equal(t, "Ally", updated.Nickname)

		profile, ok := f.vector.profiles[person.ID]
		require.True(t, ok)
		assert.Equal(t, "Carpenter.", profile.Biography)
	})
}

func TestPersonService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newPersonFixture()

	alice, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice", Biography: "bio"})
	require.NoError(t, err)
	ben, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Ben"})
	require.NoError(t, err)

	relSvc := NewRelationshipService(f.db)
	_, err = relSvc.Create(ctx, alice.ID, entities.RelationParent, ben.ID, RelationshipInput{})
	require.NoError(t, err)

	_, err = f.svc.AttachPhoto(ctx, alice.ID, strings.NewReader("img"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, alice.ID))

	t.Run("person is gone", func(t *testing.T) {
		found, err := f.db.FindPersonByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("edges are gone", func(t *testing.T) {
		count, err := f.db.CountRelationships(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("profile is gone", func(t *testing.T) {
		_, ok := f.vector.profiles[alice.ID]
		assert.False(t, ok)
	})

	t.Run("photo is gone", func(t *testing.T) {
		assert.Empty(t, f.media.stored)
	})

	t.Run("deleting again errors", func(t *testing.T) {
		err := f.svc.Delete(ctx, alice.ID)
		require.Error(t, err)
	})
}

func TestPersonService_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newPersonFixture()

	alice, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice Hart"})
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		found, err := f.svc.Resolve(ctx, "hart", alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
	})

	t.Run("by name", func(t *testing.T) {
		found, err := f.svc.Resolve(ctx, "hart", "alice hart")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := f.svc.Resolve(ctx, "hart", "nobody")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "person not found")
	})
}

func TestPersonService_Photos(t *testing.T) {
	ctx := context.Background()
	f := newPersonFixture()

	alice, err := f.svc.Create(ctx, "hart", PersonInput{Name: "Alice"})
	require.NoError(t, err)

	t.Run("attach records the photo id", func(t *testing.T) {
		updated, err := f.svc.AttachPhoto(ctx, alice.ID, strings.NewReader("img"))
		require.NoError(t, err)
		assert.NotEmpty(t, updated.PhotoID)
		assert.True(t, f.media.Exists(updated.PhotoID))
	})

	t.Run("attach replaces the previous photo", func(t *testing.T) {
		first, err := f.db.FindPersonByID(ctx, alice.ID)
		require.NoError(t, err)

		updated, err := f.svc.AttachPhoto(ctx, alice.ID, strings.NewReader("img2"))
		require.NoError(t, err)
		assert.NotEqual(t, first.PhotoID, updated.PhotoID)
		assert.False(t, f.media.Exists(first.PhotoID))
	})

	t.Run("remove clears the photo id", func(t *testing.T) {
		require.NoError(t, f.svc.RemovePhoto(ctx, alice.ID))

		found, err := f.db.FindPersonByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, found.PhotoID)
		assert.Empty(t, f.media.stored)

		// Removing when there is no photo is a no-op.
		require.NoError(t, f.svc.RemovePhoto(ctx, alice.ID))
	})
}
