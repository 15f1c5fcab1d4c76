package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

// PlaceRepository implements storage.PlaceRepository for BadgerDB.
type PlaceRepository struct {
	backend  *Backend
	orderSeq *badger.Sequence
}

var _ storage.PlaceRepository = (*PlaceRepository)(nil)

// NewPlaceRepository creates a new PlaceRepository.
func NewPlaceRepository(backend *Backend) (*PlaceRepository, error) {
	orderSeq, err := backend.GetSequence(placeOrderSeq)
	if err != nil {
		return nil, err
	}

	return &PlaceRepository{
		backend:  backend,
		orderSeq: orderSeq,
	}, nil
}

// Close releases the order sequence.
func (r *PlaceRepository) Close() error {
	return r.orderSeq.Release()
}

// AddPlaces adds one or more places to storage.
// A place whose ID is already stored is overwritten and keeps its original
// insertion-order position and InsertedAt; new places get the next position.
func (r *PlaceRepository) AddPlaces(ctx context.Context, places ...*core.Place) ([]*core.Place, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Timestamps persist at microsecond precision; stamp at the same
		// precision so callers see exactly what a later read returns.
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, place := range places {
			key := makePlaceKey(place.Id)

			old, err := r.readPlace(tx, key)
			if err != nil {
				return err
			}

			if old != nil {
				place.InsertedAt = old.InsertedAt
			} else {
				place.InsertedAt = now

				position, err := r.orderSeq.Next()
				if err != nil {
					return err
				}
				if err := tx.Set(makeOrderKey(position), storage.MarshalID(place.Id)); err != nil {
					return err
				}
				positionValue := make([]byte, 8)
				binary.BigEndian.PutUint64(positionValue, position)
				if err := tx.Set(makeOrderByIDKey(place.Id), positionValue); err != nil {
					return err
				}
			}
			place.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalPlace(place)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return places, err
}

// GetPlace retrieves a single place by ID.
func (r *PlaceRepository) GetPlace(ctx context.Context, id core.ID) (*core.Place, error) {
	var result *core.Place
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readPlace(tx, makePlaceKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPlaces retrieves multiple places by their IDs.
// Missing places are skipped, not reported as errors.
func (r *PlaceRepository) GetPlaces(ctx context.Context, ids ...core.ID) ([]*core.Place, error) {
	var result []*core.Place
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			place, err := r.readPlace(tx, makePlaceKey(id))
			if err != nil {
				return err
			}
			if place != nil {
				result = append(result, place)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeletePlaces removes places by their IDs.
func (r *PlaceRepository) DeletePlaces(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePlaceKey(id)

			place, err := r.readPlace(tx, key)
			if err != nil {
				return err
			}
			if place == nil {
				return storage.ErrNotFound
			}

			// Remove both sides of the insertion-order index
			orderByIDKey := makeOrderByIDKey(id)
			item, err := tx.Get(orderByIDKey)
			if err == nil {
				var position uint64
				if err := item.Value(func(val []byte) error {
					position = binary.BigEndian.Uint64(val)
					return nil
				}); err != nil {
					return err
				}
				if err := tx.Delete(makeOrderKey(position)); err != nil {
					return err
				}
				if err := tx.Delete(orderByIDKey); err != nil {
					return err
				}
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AllPlaces returns every stored place in insertion order.
func (r *PlaceRepository) AllPlaces(ctx context.Context) ([]*core.Place, error) {
	var results []*core.Place
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(placeOrderPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var placeID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				placeID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			place, err := r.readPlace(tx, makePlaceKey(placeID))
			if err != nil {
				return err
			}
			if place != nil {
				results = append(results, place)
			}
		}
		return nil
	}, false)

	return results, err
}

// CountPlaces returns the number of stored places.
func (r *PlaceRepository) CountPlaces(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(placeOrderPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// readPlace reads a place record from the transaction.
// Returns nil without error when the key is absent.
func (r *PlaceRepository) readPlace(tx *badger.Txn, key []byte) (*core.Place, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var place *core.Place
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		place, unmarshalErr = storage.UnmarshalPlace(val)
		return unmarshalErr
	})
	return place, err
}
