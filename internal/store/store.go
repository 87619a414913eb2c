package store

import "context"

// Store is the key to JSON-blob persistence collaborator. Records are read
// and written whole; there are no partial-field updates at this boundary.
// A single local actor is assumed: concurrent writers to the same key race
// with last-write-wins semantics.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
