// Copyright 2025 Tastetrail Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

const (
	// DefaultBatchSize is the default number of places to embed in each batch
	DefaultBatchSize = 100
)

// PlaceIterator walks every stored place in storage order, in batches.
type PlaceIterator struct {
	repo      storage.PlaceRepository
	batchSize int
}

// NewPlaceIterator creates a new place iterator.
// batchSize: number of places per batch (must be > 0)
func NewPlaceIterator(repo storage.PlaceRepository, batchSize int) *PlaceIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &PlaceIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all places, calling fn for each batch.
// Iteration stops on first error from fn or when all places are processed.
// Context cancellation is checked between batches.
func (it *PlaceIterator) ForEach(ctx context.Context, fn func([]*core.Place) error) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	places, err := it.repo.AllPlaces(ctx)
	if err != nil {
		return err
	}

	if len(places) == 0 {
		// Nothing to process
		return nil
	}

	for i := 0; i < len(places); i += it.batchSize {
		end := i + it.batchSize
		if end > len(places) {
			end = len(places)
		}

		if err := fn(places[i:end]); err != nil {
			return err
		}

		// Check context after each batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
