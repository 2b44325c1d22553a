package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound indicates the requested key holds no object
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the blob-store contract the workflow depends on: put/get of
// binary artifacts under opaque keys
type ObjectStore interface {
	// Put stores the object bytes under key with the given content type
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Get resolves a key to the stored bytes, returning ErrObjectNotFound
	// when no object exists under the key
	Get(ctx context.Context, key string) ([]byte, error)
}
