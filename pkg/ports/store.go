package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KVStore.Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// KVStore defines the interface for persisting session slots.
// Values are opaque bytes; the engine stores JSON documents.
type KVStore interface {
	// Get retrieves the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys starting with prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}
