package mediastore

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestStore_RequiresDir(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}

func TestStore_AttachOpenRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	photoID, err := store.Attach("p1", encodePNG(t, 800, 600))
	require.NoError(t, err)
	require.NotEmpty(t, photoID)
	assert.True(t, store.Exists(photoID))

	t.Run("stored photo is a bounded square jpeg", func(t *testing.T) {
		r, err := store.Open(photoID)
		require.NoError(t, err)
		defer r.Close()

		img, err := jpeg.Decode(r)
		require.NoError(t, err)
		bounds := img.Bounds()
		assert.Equal(t, bounds.Dx(), bounds.Dy())
		assert.LessOrEqual(t, bounds.Dx(), 512)
	})

	t.Run("small images keep their size", func(t *testing.T) {
		id, err := store.Attach("p2", encodePNG(t, 100, 100))
		require.NoError(t, err)

		r, err := store.Open(id)
		require.NoError(t, err)
		defer r.Close()

		img, err := jpeg.Decode(r)
		require.NoError(t, err)
		assert.Equal(t, 100, img.Bounds().Dx())
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Remove(photoID))
		assert.False(t, store.Exists(photoID))

		_, err := store.Open(photoID)
		require.Error(t, err)

		// Removing again is not an error.
		require.NoError(t, store.Remove(photoID))
	})
}

func TestStore_RejectsGarbage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Attach("p1", bytes.NewBufferString("not an image"))
	require.Error(t, err)
}
