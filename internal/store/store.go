package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetItem when no value is stored under the key.
var ErrNotFound = errors.New("item not found")

// MaxItemSize caps how much of a stored value is read. Serialized sessions are
// a few KiB.
const MaxItemSize = 1 << 20

// Store is a read-only view of where the auth client persists its session.
// Keys are opaque strings; backends map them to their own naming.
type Store interface {
	// GetItem returns the raw value stored under key, or ErrNotFound.
	GetItem(ctx context.Context, key string) ([]byte, error)

	// Name returns the store identifier (e.g. "file", "azure").
	Name() string

	// Close releases connections held by the store.
	Close() error
}
