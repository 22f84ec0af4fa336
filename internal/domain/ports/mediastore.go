package ports

import "io"

// MediaStore defines the interface for photo asset storage. Assets are keyed
// by an opaque photo ID recorded on the Person; the kinship core never
// touches them.
type MediaStore interface {
	// Attach decodes, normalizes, and stores a photo, returning its ID.
	Attach(personID string, src io.Reader) (string, error)

	// Open opens a stored photo for reading.
	Open(photoID string) (io.ReadCloser, error)

	// Remove deletes a stored photo. Removing a missing photo is not an
	// error.
	Remove(photoID string) error

	// Exists reports whether a photo is stored.
	Exists(photoID string) bool
}
