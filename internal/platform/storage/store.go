package storage

import "context"

// Store is the durable key-value store behind the ledger repository. Keys are
// strings, values are JSON documents. Writes are last-writer-wins; there is no
// cross-process coordination.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value under key, replacing any prior value.
	Put(ctx context.Context, key string, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every stored key with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
