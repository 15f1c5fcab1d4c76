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
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/storage"
)

// LocalityPolicy controls what happens when a locality filter matches
// nothing.
type LocalityPolicy int

const (
	// LocalityFallback reverts to the unfiltered set when the locality
	// matches no address. The default.
	LocalityFallback LocalityPolicy = iota
	// LocalityStrict returns an empty result instead.
	LocalityStrict
)

// Default query tunables. Alpha and the final-score weights are
// caller-supplied knobs, not constants; these are the values the CLI and
// API use when the caller doesn't say otherwise.
const (
	DefaultAlpha      = 0.6
	DefaultTopK       = 10
	DefaultWeightSim  = 0.7
	DefaultWeightDist = 0.3

	neutralDistanceScore = 0.5
)

// Query is one ranking request.
//
// Alpha blends semantic against lexical relevance; WeightSim and WeightDist
// blend relevance against distance. Neither alpha nor the weights are
// validated or clamped here; out-of-range values are the boundary layer's
// problem.
type Query struct {
	Text           string
	Locality       string
	LocalityPolicy LocalityPolicy
	Center         *core.GeoPoint
	RadiusKm       float64
	TopK           int
	Alpha          float64
	WeightSim      float64
	WeightDist     float64
}

// NewQuery returns a Query for the text with default tunables.
func NewQuery(text string) Query {
	return Query{
		Text:       text,
		TopK:       DefaultTopK,
		Alpha:      DefaultAlpha,
		WeightSim:  DefaultWeightSim,
		WeightDist: DefaultWeightDist,
	}
}

// Engine ranks the place corpus against queries by blending semantic and
// lexical similarity with locality and geo filters.
//
// Build must complete before the first Rank call. The built snapshot
// (places, vectors, lexical model) is immutable afterwards, so concurrent
// Rank calls need no locking.
type Engine struct {
	repository storage.PlaceRepository
	semantic   *SemanticIndex
	lexOpts    LexicalOptions
	logger     *slog.Logger

	ready   atomic.Bool
	places  []*core.Place
	vectors [][]float32
	lexical *LexicalIndex
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithLexicalOptions sets the vocabulary pruning thresholds of the lexical
// index.
func WithLexicalOptions(opts LexicalOptions) Option {
	return func(e *Engine) error {
		e.lexOpts = opts
		return nil
	}
}

// NewEngine creates a new ranking engine. Call Build before Rank.
func NewEngine(repository storage.PlaceRepository, semantic *SemanticIndex, opts ...Option) (*Engine, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if semantic == nil {
		return nil, ErrSemanticIndexRequired
	}

	e := &Engine{
		repository: repository,
		semantic:   semantic,
		lexOpts:    DefaultLexicalOptions(),
		logger:     slog.Default().With("component", "search_engine"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Build loads the corpus and constructs both indices.
// An embedding backend failure here is fatal; the engine stays not-ready.
func (e *Engine) Build(ctx context.Context) error {
	return e.build(ctx, false)
}

// Resync rebuilds both indices with a forced full re-embed, discarding the
// persisted embedding cache. Needed when descriptive texts changed for
// existing place ids.
func (e *Engine) Resync(ctx context.Context) error {
	return e.build(ctx, true)
}

func (e *Engine) build(ctx context.Context, force bool) error {
	places, err := e.repository.AllPlaces(ctx)
	if err != nil {
		return err
	}

	var vectors [][]float32
	if force {
		vectors, err = e.semantic.Resync(ctx, places)
	} else {
		vectors, err = e.semantic.Sync(ctx, places)
	}
	if err != nil {
		return err
	}

	corpus := make([]string, len(places))
	for i, place := range places {
		corpus[i] = DescriptiveText(place)
	}
	lexical := NewLexicalIndex(corpus, e.lexOpts)

	e.places = places
	e.vectors = vectors
	e.lexical = lexical
	e.ready.Store(true)

	e.logger.Info("indices built",
		"places", len(places), "vocabulary", lexical.VocabularySize())
	return nil
}

// Ready reports whether Build has completed.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// Rank scores the corpus against the query and returns the top candidates.
func (e *Engine) Rank(ctx context.Context, query Query) ([]core.Candidate, error) {
	return e.RankWithMonitor(ctx, query, nil)
}

// RankWithMonitor ranks with monitoring. The monitor receives callbacks at
// each stage of the ranking pass.
func (e *Engine) RankWithMonitor(ctx context.Context, query Query, monitor RankMonitor) ([]core.Candidate, error) {
	if !e.ready.Load() {
		return nil, ErrNotReady
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	topK := query.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	if len(e.places) == 0 {
		return []core.Candidate{}, nil
	}

	// Empty query: first topK places in storage order, unscored
	if strings.TrimSpace(query.Text) == "" {
		candidates := make([]core.Candidate, 0, topK)
		for _, place := range e.places {
			if len(candidates) >= topK {
				break
			}
			candidates = append(candidates, core.Candidate{Place: place, DistanceKm: -1})
		}
		monitor.Finish(candidates)
		return candidates, nil
	}

	queryVector, err := e.semantic.EmbedQuery(ctx, query.Text)
	if err != nil {
		e.logger.Error("error embedding query", "query", query.Text, "err", err)
		return nil, err
	}

	semanticScores := make([]float64, len(e.places))
	for i, vector := range e.vectors {
		semanticScores[i] = float64(dotProduct(queryVector, vector))
	}
	monitor.AfterSemanticScores(semanticScores)

	lexicalScores := e.lexical.Scores(query.Text)
	monitor.AfterLexicalScores(lexicalScores)

	candidates := make([]core.Candidate, len(e.places))
	for i, place := range e.places {
		relevance := query.Alpha*semanticScores[i] + (1-query.Alpha)*lexicalScores[i]
		candidates[i] = core.Candidate{
			Place:          place,
			SemanticScore:  semanticScores[i],
			LexicalScore:   lexicalScores[i],
			RelevanceScore: relevance,
			DistanceKm:     -1,
		}
	}

	candidates, fellBack := e.filterLocality(candidates, query)
	monitor.AfterLocalityFilter(len(candidates), fellBack)
	if len(candidates) == 0 {
		monitor.Finish(candidates)
		return candidates, nil
	}

	candidates = e.applyGeo(candidates, query)
	monitor.AfterGeoFilter(len(candidates))
	if len(candidates) == 0 {
		monitor.Finish(candidates)
		return candidates, nil
	}

	// Stable sort keeps corpus order as the tie-break
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	monitor.Finish(candidates)

	return candidates, nil
}

// filterLocality applies the case-insensitive address substring filter.
// Reports whether the fallback to the unfiltered set was taken.
func (e *Engine) filterLocality(candidates []core.Candidate, query Query) ([]core.Candidate, bool) {
	locality := strings.TrimSpace(query.Locality)
	if locality == "" {
		return candidates, false
	}

	needle := strings.ToLower(locality)
	filtered := make([]core.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate.Place.Address), needle) {
			filtered = append(filtered, candidate)
		}
	}

	if len(filtered) == 0 {
		if query.LocalityPolicy == LocalityStrict {
			return filtered, false
		}
		e.logger.Debug("locality matched nothing, falling back to unfiltered set",
			"locality", locality)
		return candidates, true
	}
	return filtered, false
}

// applyGeo applies the strict radius filter and computes final scores.
//
// With a center and a positive radius, places beyond the radius are dropped
// and distance_score = clamp(1 - d/R, 0, 1). With a center but no positive
// radius, no filtering occurs and the distance score is a neutral 0.5.
// Without a center the final score is the relevance score unchanged.
func (e *Engine) applyGeo(candidates []core.Candidate, query Query) []core.Candidate {
	if query.Center == nil {
		for i := range candidates {
			candidates[i].FinalScore = candidates[i].RelevanceScore
		}
		return candidates
	}

	weightSim, weightDist := normalizeWeights(query.WeightSim, query.WeightDist)

	result := make([]core.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		distance := query.Center.DistanceKm(candidate.Place.Location)
		candidate.DistanceKm = distance

		distanceScore := neutralDistanceScore
		if query.RadiusKm > 0 {
			if distance > query.RadiusKm {
				continue
			}
			distanceScore = clamp(1-distance/query.RadiusKm, 0, 1)
		}

		candidate.FinalScore = weightSim*candidate.RelevanceScore + weightDist*distanceScore
		result = append(result, candidate)
	}
	return result
}

// normalizeWeights scales the two weights to sum to 1.
// A zero total is treated as 1, giving both components zero contribution.
func normalizeWeights(weightSim, weightDist float64) (float64, float64) {
	total := weightSim + weightDist
	if total == 0 {
		total = 1
	}
	return weightSim / total, weightDist / total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
