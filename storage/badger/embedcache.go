package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

// EmbeddingCache implements storage.EmbeddingCache for BadgerDB.
//
// Entries are stored under a format-version marker. A cache written by an
// incompatible format version is treated as empty on Load; the next Store
// rewrites everything under the current version.
type EmbeddingCache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.EmbeddingCache = (*EmbeddingCache)(nil)

// NewEmbeddingCache creates a new EmbeddingCache on the given backend.
func NewEmbeddingCache(backend *Backend) *EmbeddingCache {
	return &EmbeddingCache{
		backend: backend,
		logger:  slog.Default().With("component", "embedding_cache"),
	}
}

// Close is a no-op; the cache holds no resources beyond the shared backend.
func (c *EmbeddingCache) Close() error {
	return nil
}

// Load returns the full persisted id -> vector mapping.
// An empty or version-incompatible cache yields an empty map, not an error.
func (c *EmbeddingCache) Load(ctx context.Context) (map[core.ID][]float32, error) {
	vectors := make(map[core.ID][]float32)

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		if err := c.checkVersion(tx); err != nil {
			if errors.Is(err, storage.ErrCacheVersionMismatch) {
				c.logger.Warn("discarding persisted embeddings", "err", err)
				return nil
			}
			return err
		}

		prefix := []byte(embeddingPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			id, err := embeddingIDFromKey(key)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}

			var vector []float32
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				vector, err = storage.UnmarshalVector(val)
				return err
			}); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			vectors[id] = vector
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// Store replaces the persisted mapping with the given one.
func (c *EmbeddingCache) Store(ctx context.Context, vectors map[core.ID][]float32) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		// Drop every existing entry first so removed places don't linger
		prefix := []byte(embeddingPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var stale [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			stale = append(stale, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		versionValue := make([]byte, varint.Uint64.Size(embeddingFormatVersion))
		varint.Uint64.Marshal(embeddingFormatVersion, versionValue)
		if err := tx.Set([]byte(embeddingMetaKey), versionValue); err != nil {
			return err
		}

		for id, vector := range vectors {
			if err := tx.Set(makeEmbeddingKey(id), storage.MarshalVector(vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// checkVersion verifies the persisted format-version marker.
// A missing marker with no entries reads as an empty, current-version cache.
func (c *EmbeddingCache) checkVersion(tx *badger.Txn) error {
	item, err := tx.Get([]byte(embeddingMetaKey))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	}

	var stored uint64
	if err := item.Value(func(val []byte) error {
		var err error
		stored, _, err = varint.Uint64.Unmarshal(val)
		return err
	}); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}

	if stored != embeddingFormatVersion {
		return fmt.Errorf("%w: stored v%d, want v%d",
			storage.ErrCacheVersionMismatch, stored, embeddingFormatVersion)
	}
	return nil
}
