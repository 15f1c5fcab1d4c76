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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

// SemanticIndex maintains the place_id -> embedding mapping and embeds
// runtime queries. Stored and query vectors are L2-normalized, so a dot
// product equals cosine similarity.
type SemanticIndex struct {
	embedder ai.Embedder
	cache    storage.EmbeddingCache
	logger   *slog.Logger
}

// NewSemanticIndex creates a semantic index over the given embedder and
// persisted cache.
func NewSemanticIndex(embedder ai.Embedder, cache storage.EmbeddingCache) (*SemanticIndex, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if cache == nil {
		return nil, ErrEmbeddingCacheRequired
	}
	return &SemanticIndex{
		embedder: embedder,
		cache:    cache,
		logger:   slog.Default().With("component", "semantic_index"),
	}, nil
}

// Sync reconciles the persisted embedding cache with the given places and
// returns their vectors in input order.
//
// The cycle is load -> evict absent ids -> embed uncached ids -> persist if
// changed. Cached entries are never recomputed, so in-place text edits to an
// existing id stay invisible until an explicit Resync. A place still missing
// a vector after sync falls back to a zero vector (logged, not fatal).
func (s *SemanticIndex) Sync(ctx context.Context, places []*core.Place) ([][]float32, error) {
	cached, err := s.cache.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading embedding cache: %w", err)
	}

	current := make(map[core.ID]bool, len(places))
	for _, place := range places {
		current[place.Id] = true
	}

	evicted := 0
	for id := range cached {
		if !current[id] {
			delete(cached, id)
			evicted++
		}
	}

	var missing []*core.Place
	for _, place := range places {
		if _, ok := cached[place.Id]; !ok {
			missing = append(missing, place)
		}
	}

	if len(missing) > 0 {
		if err := s.embedInto(ctx, missing, cached); err != nil {
			return nil, err
		}
	}

	if evicted > 0 || len(missing) > 0 {
		if err := s.cache.Store(ctx, cached); err != nil {
			return nil, fmt.Errorf("persisting embedding cache: %w", err)
		}
	}

	s.logger.Info("embedding cache synced",
		"places", len(places), "embedded", len(missing), "evicted", evicted)

	return s.orderedMatrix(places, cached), nil
}

// Resync discards the persisted cache and re-embeds every place.
// Used when descriptive texts changed for existing ids, which plain Sync
// deliberately does not detect.
func (s *SemanticIndex) Resync(ctx context.Context, places []*core.Place) ([][]float32, error) {
	vectors := make(map[core.ID][]float32, len(places))
	if err := s.embedInto(ctx, places, vectors); err != nil {
		return nil, err
	}
	if err := s.cache.Store(ctx, vectors); err != nil {
		return nil, fmt.Errorf("persisting embedding cache: %w", err)
	}

	s.logger.Info("embedding cache rebuilt", "places", len(places))

	return s.orderedMatrix(places, vectors), nil
}

// EmbedQuery returns the L2-normalized embedding of a query text.
func (s *SemanticIndex) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	NormalizeL2(vector)
	return vector, nil
}

// embedInto embeds the descriptive texts of the places and stores the
// normalized vectors into the target map.
func (s *SemanticIndex) embedInto(ctx context.Context, places []*core.Place, target map[core.ID][]float32) error {
	texts := make([]string, len(places))
	for i, place := range places {
		texts[i] = DescriptiveText(place)
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d places: %w", len(places), err)
	}
	if len(vectors) != len(places) {
		return fmt.Errorf("%w: got %d vectors for %d places",
			ErrEmbeddingCountMismatch, len(vectors), len(places))
	}

	for i, place := range places {
		NormalizeL2(vectors[i])
		target[place.Id] = vectors[i]
	}
	return nil
}

// orderedMatrix assembles vectors in input-place order, substituting a zero
// vector for any id still absent.
func (s *SemanticIndex) orderedMatrix(places []*core.Place, vectors map[core.ID][]float32) [][]float32 {
	dim := 0
	for _, vector := range vectors {
		dim = len(vector)
		break
	}

	matrix := make([][]float32, len(places))
	for i, place := range places {
		if vector, ok := vectors[place.Id]; ok {
			matrix[i] = vector
			continue
		}
		s.logger.Warn("place missing embedding after sync, using zero vector",
			"id", place.Id, "name", place.Name)
		matrix[i] = make([]float32, dim)
	}
	return matrix
}

// NormalizeL2 scales the vector to unit length in place.
// Zero vectors are left untouched.
func NormalizeL2(vector []float32) {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSquares))
	for i := range vector {
		vector[i] /= norm
	}
}
