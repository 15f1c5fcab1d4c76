package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastetrail/tastetrail/core"
	badgerstore "github.com/tastetrail/tastetrail/storage/badger"
)

func seedPlaces(t *testing.T, count int) (*badgerstore.Backend, *PlaceIterator) {
	t.Helper()

	repo, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ctx := context.Background()
	for i := 0; i < count; i++ {
		url := fmt.Sprintf("https://example.com/place-%d", i)
		_, err := repo.AddPlaces(ctx, &core.Place{
			Id:        core.IDFromContent(url),
			Name:      fmt.Sprintf("Quán %d", i),
			SourceURL: url,
			Location:  core.GeoPoint{Lat: 10.77, Lon: 106.70},
		})
		require.NoError(t, err)
	}

	return backend, NewPlaceIterator(repo, 4)
}

func TestPlaceIterator_ForEach(t *testing.T) {
	t.Run("visits every place in batches", func(t *testing.T) {
		_, iterator := seedPlaces(t, 10)

		var batchSizes []int
		total := 0
		err := iterator.ForEach(context.Background(), func(places []*core.Place) error {
			batchSizes = append(batchSizes, len(places))
			total += len(places)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 10, total)
		assert.Equal(t, []int{4, 4, 2}, batchSizes)
	})

	t.Run("empty store yields no batches", func(t *testing.T) {
		_, iterator := seedPlaces(t, 0)

		calls := 0
		err := iterator.ForEach(context.Background(), func(places []*core.Place) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Zero(t, calls)
	})

	t.Run("stops on first callback error", func(t *testing.T) {
		_, iterator := seedPlaces(t, 10)

		wantErr := errors.New("stop")
		calls := 0
		err := iterator.ForEach(context.Background(), func(places []*core.Place) error {
			calls++
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context aborts before iterating", func(t *testing.T) {
		_, iterator := seedPlaces(t, 10)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := iterator.ForEach(ctx, func(places []*core.Place) error {
			t.Fatal("callback should not run")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero batch size falls back to default", func(t *testing.T) {
		iterator := NewPlaceIterator(nil, 0)
		assert.Equal(t, DefaultBatchSize, iterator.batchSize)
	})
}
