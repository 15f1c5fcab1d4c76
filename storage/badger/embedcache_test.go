package badger

import (
	"context"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

func newTestCache(t *testing.T) storage.EmbeddingCache {
	t.Helper()
	_, cache, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		cache.Close()
		backend.Close()
	})
	return cache
}

func TestEmbeddingCache_LoadEmpty(t *testing.T) {
	cache := newTestCache(t)

	vectors, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbeddingCache_StoreAndLoad(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	want := map[core.ID][]float32{
		core.ID(1): {0.1, 0.2, 0.3},
		core.ID(2): {-0.5, 0.5, 0.0},
		core.ID(3): {1.0},
	}
	require.NoError(t, cache.Store(ctx, want))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEmbeddingCache_StoreReplacesPrevious(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	first := map[core.ID][]float32{
		core.ID(1): {0.1},
		core.ID(2): {0.2},
	}
	require.NoError(t, cache.Store(ctx, first))

	second := map[core.ID][]float32{
		core.ID(2): {0.9},
		core.ID(3): {0.3},
	}
	require.NoError(t, cache.Store(ctx, second))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
	assert.NotContains(t, got, core.ID(1))
}

func TestEmbeddingCache_VersionMismatchReadsEmpty(t *testing.T) {
	_, cache, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		cache.Close()
		backend.Close()
	})
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, map[core.ID][]float32{core.ID(7): {0.7}}))

	// Rewrite the version marker to simulate a cache from a newer format
	future := embeddingFormatVersion + 1
	err = backend.WithTx(func(tx *badgerdb.Txn) error {
		value := make([]byte, varint.Uint64.Size(future))
		varint.Uint64.Marshal(future, value)
		if err := tx.Set([]byte(embeddingMetaKey), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// A fresh Store restores the current version
	require.NoError(t, cache.Store(ctx, map[core.ID][]float32{core.ID(8): {0.8}}))
	got, err = cache.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, core.ID(8))
}
