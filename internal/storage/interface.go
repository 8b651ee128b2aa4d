package storage

import (
	"context"
	"io"
)

// StorageInterface is the binary asset pass-through: photo bytes go in, a
// servable URL comes out. No image logic lives behind it.
type StorageInterface interface {
	// Save writes the object and returns its public URL.
	Save(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Open returns a reader for a stored object.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
