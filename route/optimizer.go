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


package route

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tastetrail/tastetrail/core"
)

// Default optimizer tunables.
const (
	DefaultDistancePenaltyPerKm = 0.1
	DefaultMaxDistanceKm        = 15.0
	DefaultMaxCombinations      = 100000

	maxPlans = 3
)

// Optimizer enumerates visit sequences across the candidate lists of a
// multi-step query and returns the best few plans.
//
// The search is bounded brute force over the Cartesian product of the
// per-step candidate lists. That is only tractable because the ranker
// pre-truncates each list; MaxCombinations guards the product against
// runaway growth and makes the failure explicit instead of slow.
type Optimizer struct {
	penaltyPerKm    float64
	maxDistanceKm   float64
	maxCombinations int
	logger          *slog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer) error

// WithDistancePenalty sets the score penalty per kilometre travelled.
// Default is 0.1.
func WithDistancePenalty(penaltyPerKm float64) Option {
	return func(o *Optimizer) error {
		o.penaltyPerKm = penaltyPerKm
		return nil
	}
}

// WithMaxDistance sets the total travel budget in kilometres.
// Default is 15.
func WithMaxDistance(maxDistanceKm float64) Option {
	return func(o *Optimizer) error {
		o.maxDistanceKm = maxDistanceKm
		return nil
	}
}

// WithMaxCombinations bounds the Cartesian product size.
// Exceeding the bound fails with ErrTooManyCombinations. Default is 100000.
func WithMaxCombinations(maxCombinations int) Option {
	return func(o *Optimizer) error {
		if maxCombinations <= 0 {
			return fmt.Errorf("max combinations must be positive, got %d", maxCombinations)
		}
		o.maxCombinations = maxCombinations
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOptimizer creates a route optimizer.
func NewOptimizer(opts ...Option) (*Optimizer, error) {
	o := &Optimizer{
		penaltyPerKm:    DefaultDistancePenaltyPerKm,
		maxDistanceKm:   DefaultMaxDistanceKm,
		maxCombinations: DefaultMaxCombinations,
		logger:          slog.Default().With("component", "route_optimizer"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Optimize returns up to three route plans for the steps, best first,
// numbered route_1..route_3.
//
// With a single step no combination search happens: the top three
// candidates by relevance become degenerate one-stop plans with zero
// distance. With multiple steps every combination picking one candidate
// per step is scored by average relevance minus a distance penalty;
// combinations repeating a place or exceeding the travel budget are
// discarded. Zero feasible combinations yield an empty plan list, not an
// error.
func (o *Optimizer) Optimize(steps []core.Step, start core.GeoPoint) ([]core.RoutePlan, error) {
	if len(steps) == 0 {
		return []core.RoutePlan{}, nil
	}
	if len(steps) == 1 {
		return o.singleStepPlans(steps[0]), nil
	}

	total := 1
	for _, step := range steps {
		if len(step.Candidates) == 0 {
			// One empty step means no combination can answer every intent
			return []core.RoutePlan{}, nil
		}
		total *= len(step.Candidates)
		if total > o.maxCombinations {
			return nil, fmt.Errorf("%w: product of candidate counts exceeds %d",
				ErrTooManyCombinations, o.maxCombinations)
		}
	}

	plans := o.enumerate(steps, start, total)

	// Best first, original combination order as the tie-break
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].TotalScore > plans[j].TotalScore
	})
	if len(plans) > maxPlans {
		plans = plans[:maxPlans]
	}
	for i := range plans {
		plans[i].RouteID = fmt.Sprintf("route_%d", i+1)
	}

	o.logger.Debug("route optimization finished",
		"steps", len(steps), "combinations", total, "feasible", len(plans))
	return plans, nil
}

// singleStepPlans wraps the top candidates of a lone step as one-stop plans.
func (o *Optimizer) singleStepPlans(step core.Step) []core.RoutePlan {
	candidates := make([]core.Candidate, len(step.Candidates))
	copy(candidates, step.Candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})
	if len(candidates) > maxPlans {
		candidates = candidates[:maxPlans]
	}

	plans := make([]core.RoutePlan, len(candidates))
	for i, candidate := range candidates {
		plans[i] = core.RoutePlan{
			RouteID:         fmt.Sprintf("route_%d", i+1),
			Stops:           []core.Candidate{candidate},
			TotalScore:      candidate.RelevanceScore,
			TotalDistanceKm: 0,
		}
	}
	return plans
}

// enumerate walks the full Cartesian product and scores feasible
// combinations.
func (o *Optimizer) enumerate(steps []core.Step, start core.GeoPoint, total int) []core.RoutePlan {
	plans := make([]core.RoutePlan, 0, min(total, 64))
	indices := make([]int, len(steps))
	combination := make([]core.Candidate, len(steps))

	for {
		for i, step := range steps {
			combination[i] = step.Candidates[indices[i]]
		}

		if plan, ok := o.evaluate(combination, start); ok {
			plans = append(plans, plan)
		}

		// Advance the odometer
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(steps[pos].Candidates) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return plans
		}
	}
}

// evaluate scores one combination. Reports false for combinations that
// repeat a place or exceed the travel budget.
func (o *Optimizer) evaluate(combination []core.Candidate, start core.GeoPoint) (core.RoutePlan, bool) {
	seen := make(map[core.ID]bool, len(combination))
	for _, candidate := range combination {
		if seen[candidate.Place.Id] {
			return core.RoutePlan{}, false
		}
		seen[candidate.Place.Id] = true
	}

	var totalDistance float64
	position := start
	var relevanceSum float64
	for _, candidate := range combination {
		totalDistance += position.DistanceKm(candidate.Place.Location)
		position = candidate.Place.Location
		relevanceSum += candidate.RelevanceScore
	}
	if totalDistance > o.maxDistanceKm {
		return core.RoutePlan{}, false
	}

	avgQuality := relevanceSum / float64(len(combination))
	stops := make([]core.Candidate, len(combination))
	copy(stops, combination)

	return core.RoutePlan{
		Stops:           stops,
		TotalScore:      avgQuality - totalDistance*o.penaltyPerKm,
		TotalDistanceKm: totalDistance,
	}, true
}
