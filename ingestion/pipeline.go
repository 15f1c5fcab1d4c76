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


package ingestion

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

const storeBatchSize = 64

// Pipeline reads the crawler exports, assembles validated Place records,
// and stores them through the place repository using a worker pool.
type Pipeline struct {
	repository storage.PlaceRepository
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent storage batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.PlaceRepository, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		pool:       pool,
		logger:     slog.Default().With("component", "ingestion"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// Sources holds the crawler export streams. Restaurants is required;
// Reviews and Menu are optional.
type Sources struct {
	Restaurants io.Reader
	Reviews     io.Reader
	Menu        io.Reader
}

// Report summarizes one ingestion run.
type Report struct {
	Read     int // restaurant rows read
	Stored   int // places stored
	Excluded int // rows excluded for invalid coordinates or missing fields
}

// Run ingests the sources and stores the resulting places.
// Rows that fail validation are excluded and counted, not fatal.
func (p *Pipeline) Run(ctx context.Context, sources Sources) (Report, error) {
	if sources.Restaurants == nil {
		return Report{}, ErrRestaurantSourceRequired
	}

	restaurants, err := ReadRestaurantCSV(sources.Restaurants)
	if err != nil {
		return Report{}, err
	}

	var reviews []reviewRow
	if sources.Reviews != nil {
		if reviews, err = ReadReviewCSV(sources.Reviews); err != nil {
			return Report{}, err
		}
	}

	var menus []menuRow
	if sources.Menu != nil {
		if menus, err = ReadMenuCSV(sources.Menu); err != nil {
			return Report{}, err
		}
	}

	places, excluded := buildPlaces(restaurants, reviews, menus, p.logger)

	valid := make([]*core.Place, 0, len(places))
	for _, place := range places {
		if err := core.ValidatePlace(place); err != nil {
			excluded++
			p.logger.Warn("place failed validation, excluded",
				"source_url", place.SourceURL, "err", err)
			continue
		}
		valid = append(valid, place)
	}

	stored, err := p.store(ctx, valid)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Read:     len(restaurants),
		Stored:   stored,
		Excluded: excluded,
	}
	p.logger.Info("ingestion finished",
		"read", report.Read, "stored", report.Stored, "excluded", report.Excluded)
	return report, nil
}

// store writes places in batches through the worker pool.
func (p *Pipeline) store(ctx context.Context, places []*core.Place) (int, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		stored   int
		firstErr error
	)

	for start := 0; start < len(places); start += storeBatchSize {
		end := min(start+storeBatchSize, len(places))
		batch := places[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			added, err := p.repository.AddPlaces(ctx, batch...)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			stored += len(added)
		})
		if submitErr != nil {
			wg.Done()
			return stored, submitErr
		}
	}

	wg.Wait()
	return stored, firstErr
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
