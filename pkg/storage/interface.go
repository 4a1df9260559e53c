package storage

import (
	"context"
	"io"
)

// Storage stores uploaded chat photos and resolves their public URLs.
type Storage interface {
	// Upload stores content from the reader under the given key and returns
	// the public URL of the stored object. The size parameter is the expected
	// content size (-1 if unknown).
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}
