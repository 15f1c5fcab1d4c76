package storage

import (
	"context"

	"github.com/tastetrail/tastetrail/core"
)

// PlaceRepository provides operations for managing place records.
// Implementations must be thread-safe and support concurrent access.
type PlaceRepository interface {
	// AddPlaces adds one or more places to storage.
	// Assigns a storage-order position to each place so AllPlaces can return
	// records in insertion order. Sets InsertedAt if not already set.
	// A place whose ID already exists is overwritten in place and keeps its
	// original storage-order position.
	AddPlaces(ctx context.Context, places ...*core.Place) ([]*core.Place, error)

	// GetPlace retrieves a single place by ID.
	// Returns ErrNotFound if the place doesn't exist.
	GetPlace(ctx context.Context, id core.ID) (*core.Place, error)

	// GetPlaces retrieves multiple places by their IDs.
	// Returns only the places that exist (no error for missing places).
	GetPlaces(ctx context.Context, ids ...core.ID) ([]*core.Place, error)

	// DeletePlaces removes places by their IDs.
	// Returns ErrNotFound if any place doesn't exist.
	DeletePlaces(ctx context.Context, ids ...core.ID) error

	// AllPlaces returns every stored place in storage (insertion) order.
	// The ranking engine relies on this order being stable across calls.
	AllPlaces(ctx context.Context) ([]*core.Place, error)

	// CountPlaces returns the number of stored places.
	CountPlaces(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// EmbeddingCache persists place embeddings across process runs so unchanged
// places are not re-embedded. Entries are keyed by place ID under a format
// version tag; a cache written by an incompatible version reads as empty.
type EmbeddingCache interface {
	// Load returns the full persisted id -> vector mapping.
	// An empty or version-incompatible cache yields an empty map, not an error.
	Load(ctx context.Context) (map[core.ID][]float32, error)

	// Store replaces the persisted mapping with the given one.
	Store(ctx context.Context, vectors map[core.ID][]float32) error

	// Close closes the cache and releases resources.
	Close() error
}
