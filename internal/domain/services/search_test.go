package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintreehq/kintree/internal/domain/entities"
)

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("returns matches from the index", func(t *testing.T) {
		vector := newTestVectorDB()
		vector.profiles["p1"] = entities.Profile{PersonID: "p1", Name: "Alice", Biography: "Carpenter."}
		svc := NewSearchService(&testEmbedder{}, vector)

		matches, err := svc.Search(ctx, "woodworker", 5)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Alice", matches[0].Profile.Name)
	})

	t.Run("embedding failure is surfaced", func(t *testing.T) {
		svc := NewSearchService(&testEmbedder{embedErr: errors.New("down")}, newTestVectorDB())

		_, err := svc.Search(ctx, "anything", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding query")
	})
}
