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
	"fmt"
	"io"
	"time"

	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

// Config holds configuration for the re-embedding operation.
type Config struct {
	// BatchSize is the number of places to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of places)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder rebuilds the embedding cache for every stored place.
type Reembedder struct {
	repo      storage.PlaceRepository
	cache     storage.EmbeddingCache
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *PlaceIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.PlaceRepository, embedder ai.Embedder, cache storage.EmbeddingCache, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewPlaceIterator(repo, config.BatchSize)

	return &Reembedder{
		repo:      repo,
		cache:     cache,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}, nil
}

// Run re-embeds every stored place and replaces the persisted cache in one
// write at the end. A crash mid-run therefore leaves the old cache intact.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.repo.CountPlaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to count places: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No places found in database (0 places)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting re-embedding of %d places (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	vectors := make(map[core.ID][]float32, total)
	processed := 0

	err = r.iterator.ForEach(ctx, func(places []*core.Place) error {
		batch, err := r.processor.Process(ctx, places)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		for id, vector := range batch {
			vectors[id] = vector
		}

		processed += len(places)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	if err := r.cache.Store(ctx, vectors); err != nil {
		return fmt.Errorf("failed to persist embedding cache: %w", err)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Processed %d places in %v (%.1f places/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
