package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastetrail/tastetrail/ai/mock"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
	badgerstore "github.com/tastetrail/tastetrail/storage/badger"
)

func newTestCache(t *testing.T) storage.EmbeddingCache {
	t.Helper()
	_, cache, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		cache.Close()
		backend.Close()
	})
	return cache
}

// recordingEmbedder wraps a mock embedder and records every batch of texts
// submitted for embedding.
func recordingEmbedder() (*mock.MockEmbedder, *[][]string) {
	inner := mock.NewMockEmbedder()
	outer := mock.NewMockEmbedder()
	batches := &[][]string{}
	outer.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		*batches = append(*batches, texts)
		return inner.EmbedTexts(ctx, texts)
	}
	return outer, batches
}

func namedPlace(name string) *core.Place {
	return &core.Place{
		Id:        core.IDFromContent("https://example.com/" + name),
		Name:      name,
		SourceURL: "https://example.com/" + name,
	}
}

func TestSemanticIndex_SyncReturnsUnitVectorsInOrder(t *testing.T) {
	index, err := NewSemanticIndex(mock.NewMockEmbedder(), newTestCache(t))
	require.NoError(t, err)

	places := []*core.Place{namedPlace("Alpha"), namedPlace("Beta"), namedPlace("Gamma")}
	matrix, err := index.Sync(context.Background(), places)
	require.NoError(t, err)
	require.Len(t, matrix, 3)

	for i, vector := range matrix {
		var sumSquares float64
		for _, v := range vector {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-6, "vector %d not unit length", i)
	}

	// Same input order yields the same matrix
	again, err := index.Sync(context.Background(), places)
	require.NoError(t, err)
	assert.Equal(t, matrix, again)
}

func TestSemanticIndex_CacheIncrementality(t *testing.T) {
	cache := newTestCache(t)
	embedder, batches := recordingEmbedder()
	index, err := NewSemanticIndex(embedder, cache)
	require.NoError(t, err)
	ctx := context.Background()

	a, b, c := namedPlace("A"), namedPlace("B"), namedPlace("C")
	base, err := index.Sync(ctx, []*core.Place{a, b, c})
	require.NoError(t, err)
	require.Len(t, *batches, 1)
	assert.Len(t, (*batches)[0], 3)

	// Drop A, add D: exactly one embedding call for exactly one text
	d := namedPlace("D")
	next, err := index.Sync(ctx, []*core.Place{b, c, d})
	require.NoError(t, err)
	require.Len(t, *batches, 2)
	assert.Equal(t, []string{DescriptiveText(d)}, (*batches)[1])

	// B and C vectors are bit-identical to before
	assert.Equal(t, base[1], next[0])
	assert.Equal(t, base[2], next[1])

	// A was evicted from the persisted cache
	persisted, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, persisted, a.Id)
	assert.Contains(t, persisted, d.Id)
}

func TestSemanticIndex_SyncSurvivesRestart(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	places := []*core.Place{namedPlace("One"), namedPlace("Two")}

	first, err := NewSemanticIndex(mock.NewMockEmbedder(), cache)
	require.NoError(t, err)
	_, err = first.Sync(ctx, places)
	require.NoError(t, err)

	// A fresh index over the same cache embeds nothing
	embedder, batches := recordingEmbedder()
	second, err := NewSemanticIndex(embedder, cache)
	require.NoError(t, err)
	_, err = second.Sync(ctx, places)
	require.NoError(t, err)
	assert.Empty(t, *batches)
}

func TestSemanticIndex_ResyncReembedsEverything(t *testing.T) {
	cache := newTestCache(t)
	embedder, batches := recordingEmbedder()
	index, err := NewSemanticIndex(embedder, cache)
	require.NoError(t, err)
	ctx := context.Background()

	places := []*core.Place{namedPlace("X"), namedPlace("Y")}
	_, err = index.Sync(ctx, places)
	require.NoError(t, err)
	require.Len(t, *batches, 1)

	_, err = index.Resync(ctx, places)
	require.NoError(t, err)
	require.Len(t, *batches, 2)
	assert.Len(t, (*batches)[1], 2)
}

func TestSemanticIndex_EmbedderFailureIsFatal(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("backend unreachable")
	}
	index, err := NewSemanticIndex(embedder, newTestCache(t))
	require.NoError(t, err)

	_, err = index.Sync(context.Background(), []*core.Place{namedPlace("Z")})
	assert.Error(t, err)
}

func TestSemanticIndex_EmbedQueryNormalized(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{3, 4}, nil
	}
	index, err := NewSemanticIndex(embedder, newTestCache(t))
	require.NoError(t, err)

	vector, err := index.EmbedQuery(context.Background(), "quán cà phê yên tĩnh")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, vector[0], 1e-6)
	assert.InDelta(t, 0.8, vector[1], 1e-6)
}

func TestNewSemanticIndex_Validation(t *testing.T) {
	_, err := NewSemanticIndex(nil, newTestCache(t))
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewSemanticIndex(mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrEmbeddingCacheRequired)
}

func TestNormalizeL2(t *testing.T) {
	t.Run("scales to unit length in place", func(t *testing.T) {
		vector := []float32{3, 4}
		NormalizeL2(vector)
		assert.InDelta(t, 0.6, vector[0], 1e-6)
		assert.InDelta(t, 0.8, vector[1], 1e-6)
	})

	t.Run("zero vector is left untouched", func(t *testing.T) {
		vector := []float32{0, 0, 0}
		NormalizeL2(vector)
		assert.Equal(t, []float32{0, 0, 0}, vector)
	})
}
