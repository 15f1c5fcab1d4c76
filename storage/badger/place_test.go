package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

func newTestRepo(t *testing.T) storage.PlaceRepository {
	t.Helper()
	repo, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testPlace(sourceURL, name string) *core.Place {
	return &core.Place{
		Id:        core.IDFromContent(sourceURL),
		Name:      name,
		Address:   "123 Nguyễn Huệ, Quận 1",
		Location:  core.GeoPoint{Lat: 10.7745, Lon: 106.7009},
		AvgRating: 4.0,
		SourceURL: sourceURL,
	}
}

func TestAddAndGetPlace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	place := testPlace("https://example.com/quan-an-ngon", "Quán Ăn Ngon")
	_, err := repo.AddPlaces(ctx, place)
	require.NoError(t, err)
	assert.False(t, place.InsertedAt.IsZero())
	assert.False(t, place.UpdatedAt.IsZero())

	got, err := repo.GetPlace(ctx, place.Id)
	require.NoError(t, err)
	assert.Equal(t, place.Name, got.Name)
	assert.Equal(t, place.Location, got.Location)
}

func TestAddPlaces_TimestampsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	place := testPlace("https://example.com/timestamps", "Quán Giờ Giấc")
	_, err := repo.AddPlaces(ctx, place)
	require.NoError(t, err)

	// The wire format keeps microseconds; the stamped values must already be
	// at that precision so a read returns exactly what AddPlaces reported.
	got, err := repo.GetPlace(ctx, place.Id)
	require.NoError(t, err)
	assert.Equal(t, place.InsertedAt, got.InsertedAt)
	assert.Equal(t, place.UpdatedAt, got.UpdatedAt)
	assert.Zero(t, place.InsertedAt.Nanosecond()%1000)
}

func TestGetPlace_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetPlace(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetPlaces_SkipsMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := testPlace("https://example.com/a", "A")
	b := testPlace("https://example.com/b", "B")
	_, err := repo.AddPlaces(ctx, a, b)
	require.NoError(t, err)

	got, err := repo.GetPlaces(ctx, a.Id, core.ID(999), b.Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAllPlaces_InsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	names := []string{"First", "Second", "Third", "Fourth"}
	for i, name := range names {
		p := testPlace("https://example.com/order-"+name, name)
		_, err := repo.AddPlaces(ctx, p)
		require.NoError(t, err, "add %d", i)
	}

	all, err := repo.AllPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(names))
	for i, p := range all {
		assert.Equal(t, names[i], p.Name)
	}

	// Order must be stable across calls
	again, err := repo.AllPlaces(ctx)
	require.NoError(t, err)
	for i := range all {
		assert.Equal(t, all[i].Id, again[i].Id)
	}
}

func TestAddPlaces_OverwriteKeepsPosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := testPlace("https://example.com/keep", "Original Name")
	second := testPlace("https://example.com/later", "Later Place")
	_, err := repo.AddPlaces(ctx, first, second)
	require.NoError(t, err)

	firstInserted := first.InsertedAt

	updated := testPlace("https://example.com/keep", "Updated Name")
	_, err = repo.AddPlaces(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, firstInserted, updated.InsertedAt)

	all, err := repo.AllPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Updated Name", all[0].Name)
	assert.Equal(t, "Later Place", all[1].Name)

	count, err := repo.CountPlaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeletePlaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := testPlace("https://example.com/del-a", "A")
	b := testPlace("https://example.com/del-b", "B")
	c := testPlace("https://example.com/del-c", "C")
	_, err := repo.AddPlaces(ctx, a, b, c)
	require.NoError(t, err)

	require.NoError(t, repo.DeletePlaces(ctx, b.Id))

	_, err = repo.GetPlace(ctx, b.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := repo.AllPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "C", all[1].Name)
}

func TestDeletePlaces_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.DeletePlaces(context.Background(), core.ID(404))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPlaceRepository_ClosedBackend(t *testing.T) {
	repo, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, backend.Close())

	_, err = repo.GetPlace(context.Background(), core.ID(1))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = repo.AddPlaces(context.Background(), testPlace("https://example.com/late", "Late"))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestCountPlaces_Empty(t *testing.T) {
	repo := newTestRepo(t)

	count, err := repo.CountPlaces(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
