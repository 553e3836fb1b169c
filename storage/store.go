// Package storage provides the persistent key-value backends that plugins
// write snapshots into. Keys are /-separated strings and values are raw
// bytes; a Save always replaces the prior value for its key.
package storage

import "context"

// Store translates between a backing medium and the key-value namespace.
// Implementations perform I/O on each call without caching.
type Store interface {
	// List returns all available keys in the store.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys. A missing key fails
	// with ErrKeyNotFound.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// Entry is a key-value pair.
type Entry struct {
	Key   string
	Value []byte
}
