// Package mediastore provides filesystem storage for person photos.
package mediastore

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
)

const (
	// maxDimension is the longest edge of a stored photo.
	maxDimension = 512
	// jpegQuality is the quality used when re-encoding photos.
	jpegQuality = 85
)

// Store implements the MediaStore interface on the local filesystem.
// Photos are normalized on ingest: center-cropped to a square, bounded
// to maxDimension, and stored as JPEG keyed by photo ID.
type Store struct {
	dir string
}

// NewStore creates a media store rooted at the given directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("media directory is required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Attach ingests an image for a person and returns the new photo ID.
func (s *Store) Attach(personID string, src io.Reader) (string, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	img = normalize(img)

	photoID := uuid.New().String()
	path := s.path(photoID)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating photo file: %w", err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("encoding photo: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing photo file: %w", err)
	}

	return photoID, nil
}

// Open returns a reader for the stored photo.
func (s *Store) Open(photoID string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(photoID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("photo not found: %s", photoID)
	}
	if err != nil {
		return nil, fmt.Errorf("opening photo: %w", err)
	}

	return f, nil
}

// Remove deletes a stored photo. A missing photo is not an error.
func (s *Store) Remove(photoID string) error {
	err := os.Remove(s.path(photoID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing photo: %w", err)
	}

	return nil
}

// Exists reports whether a photo is stored.
func (s *Store) Exists(photoID string) bool {
	_, err := os.Stat(s.path(photoID))
	return err == nil
}

func (s *Store) path(photoID string) string {
	return filepath.Join(s.dir, photoID+".jpg")
}

// normalize center-crops an image to a square and bounds it to maxDimension.
func normalize(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	side := w
	if h < side {
		side = h
	}

	// Center crop.
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	cropped := image.Rect(x0, y0, x0+side, y0+side)

	target := side
	if target > maxDimension {
		target = maxDimension
	}

	// Nearest-neighbor resample into the target square.
	out := image.NewRGBA(image.Rect(0, 0, target, target))
	for y := 0; y < target; y++ {
		srcY := cropped.Min.Y + y*side/target
		for x := 0; x < target; x++ {
			srcX := cropped.Min.X + x*side/target
			out.Set(x, y, img.At(srcX, srcY))
		}
	}

	return out
}
