package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastetrail/tastetrail/core"
)

var origin = core.GeoPoint{Lat: 10.77, Lon: 106.70}

// kmNorth returns a point approximately km kilometres north of origin.
func kmNorth(km float64) core.GeoPoint {
	return core.GeoPoint{Lat: origin.Lat + km/111.195, Lon: origin.Lon}
}

func candidate(name string, relevance float64, location core.GeoPoint) core.Candidate {
	return core.Candidate{
		Place: &core.Place{
			Id:       core.IDFromContent("https://example.com/" + name),
			Name:     name,
			Location: location,
		},
		RelevanceScore: relevance,
	}
}

func newOptimizer(t *testing.T, opts ...Option) *Optimizer {
	t.Helper()
	optimizer, err := NewOptimizer(opts...)
	require.NoError(t, err)
	return optimizer
}

func TestOptimize_NoSteps(t *testing.T) {
	plans, err := newOptimizer(t).Optimize(nil, origin)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestOptimize_SingleStepShortcut(t *testing.T) {
	step := core.Step{Keyword: "cà phê", Candidates: []core.Candidate{
		candidate("low", 0.3, kmNorth(1)),
		candidate("high", 0.9, kmNorth(2)),
		candidate("mid", 0.6, kmNorth(3)),
		candidate("lowest", 0.1, kmNorth(4)),
	}}

	plans, err := newOptimizer(t).Optimize([]core.Step{step}, origin)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	// Top three by relevance, distance ignored
	assert.Equal(t, "high", plans[0].Stops[0].Place.Name)
	assert.Equal(t, "mid", plans[1].Stops[0].Place.Name)
	assert.Equal(t, "low", plans[2].Stops[0].Place.Name)
	for i, plan := range plans {
		assert.Len(t, plan.Stops, 1)
		assert.Zero(t, plan.TotalDistanceKm)
		assert.Equal(t, plan.Stops[0].RelevanceScore, plan.TotalScore)
		assert.Equal(t, []string{"route_1", "route_2", "route_3"}[i], plan.RouteID)
	}
}

func TestOptimize_MultiStepScenario(t *testing.T) {
	a := candidate("A", 0.9, origin)
	b := candidate("B", 0.7, kmNorth(1))
	a2 := a
	a2.RelevanceScore = 0.8
	c := candidate("C", 0.6, kmNorth(4))

	steps := []core.Step{
		{Index: 0, Candidates: []core.Candidate{a, b}},
		{Index: 1, Candidates: []core.Candidate{a2, c}},
	}

	plans, err := newOptimizer(t).Optimize(steps, origin)
	require.NoError(t, err)
	require.NotEmpty(t, plans)

	// No plan repeats a place: (A, A) must have been discarded
	for _, plan := range plans {
		ids := plan.StopIDs()
		seen := map[core.ID]bool{}
		for _, id := range ids {
			assert.False(t, seen[id], "plan %s repeats a stop", plan.RouteID)
			seen[id] = true
		}
	}

	// Feasible combinations score as quality minus distance penalty:
	// (B, A): avg(0.7, 0.8) - 2km*0.1 = 0.55
	// (A, C): avg(0.9, 0.6) - 4km*0.1 = 0.35
	// (B, C): avg(0.7, 0.6) - 4km*0.1 = 0.25
	require.Len(t, plans, 3)
	assert.Equal(t, "route_1", plans[0].RouteID)
	assert.Equal(t, "B", plans[0].Stops[0].Place.Name)
	assert.Equal(t, "A", plans[0].Stops[1].Place.Name)
	assert.InDelta(t, 0.55, plans[0].TotalScore, 0.01)
	assert.InDelta(t, 2.0, plans[0].TotalDistanceKm, 0.05)

	assert.Equal(t, "A", plans[1].Stops[0].Place.Name)
	assert.Equal(t, "C", plans[1].Stops[1].Place.Name)
	assert.InDelta(t, 0.35, plans[1].TotalScore, 0.01)
}

func TestOptimize_DistanceBudget(t *testing.T) {
	near := candidate("near", 0.5, kmNorth(1))
	far := candidate("far", 0.99, kmNorth(30))

	steps := []core.Step{
		{Candidates: []core.Candidate{candidate("start", 0.5, origin)}},
		{Candidates: []core.Candidate{near, far}},
	}

	plans, err := newOptimizer(t).Optimize(steps, origin)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "near", plans[0].Stops[1].Place.Name)
	for _, plan := range plans {
		assert.LessOrEqual(t, plan.TotalDistanceKm, DefaultMaxDistanceKm)
	}
}

func TestOptimize_AllCombinationsInfeasible(t *testing.T) {
	steps := []core.Step{
		{Candidates: []core.Candidate{candidate("x", 0.9, origin)}},
		{Candidates: []core.Candidate{candidate("y", 0.9, kmNorth(100))}},
	}

	plans, err := newOptimizer(t).Optimize(steps, origin)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestOptimize_EmptyStepYieldsNoPlans(t *testing.T) {
	steps := []core.Step{
		{Candidates: []core.Candidate{candidate("x", 0.9, origin)}},
		{Candidates: nil},
	}

	plans, err := newOptimizer(t).Optimize(steps, origin)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestOptimize_CombinationBound(t *testing.T) {
	var candidates []core.Candidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, candidate(string(rune('a'+i)), 0.5, kmNorth(float64(i)*0.1)))
	}
	steps := []core.Step{
		{Candidates: candidates},
		{Candidates: candidates},
	}

	optimizer := newOptimizer(t, WithMaxCombinations(100))
	_, err := optimizer.Optimize(steps, origin)
	assert.ErrorIs(t, err, ErrTooManyCombinations)
}

func TestOptimize_Deterministic(t *testing.T) {
	steps := []core.Step{
		{Candidates: []core.Candidate{
			candidate("p", 0.8, origin),
			candidate("q", 0.8, kmNorth(0.5)),
		}},
		{Candidates: []core.Candidate{
			candidate("r", 0.7, kmNorth(1)),
			candidate("s", 0.7, kmNorth(1.5)),
		}},
	}

	optimizer := newOptimizer(t)
	first, err := optimizer.Optimize(steps, origin)
	require.NoError(t, err)
	second, err := optimizer.Optimize(steps, origin)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOptimize_TieBreakByCombinationOrder(t *testing.T) {
	// Two combinations with identical scores: same relevance, same distance
	p1 := candidate("p1", 0.8, kmNorth(1))
	p2 := candidate("p2", 0.8, kmNorth(1))
	q := candidate("q", 0.6, kmNorth(1))

	steps := []core.Step{
		{Candidates: []core.Candidate{p1, p2}},
		{Candidates: []core.Candidate{q}},
	}

	plans, err := newOptimizer(t).Optimize(steps, origin)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	// p1 came first in the candidate list, so (p1, q) wins the tie
	assert.Equal(t, "p1", plans[0].Stops[0].Place.Name)
	assert.Equal(t, "p2", plans[1].Stops[0].Place.Name)
}

func TestOptimizerOptions(t *testing.T) {
	t.Run("invalid max combinations", func(t *testing.T) {
		_, err := NewOptimizer(WithMaxCombinations(0))
		assert.Error(t, err)
	})

	t.Run("custom penalty", func(t *testing.T) {
		a := candidate("a", 0.9, origin)
		b := candidate("b", 0.5, kmNorth(2))
		steps := []core.Step{
			{Candidates: []core.Candidate{a}},
			{Candidates: []core.Candidate{b}},
		}

		optimizer := newOptimizer(t, WithDistancePenalty(0.2))
		plans, err := optimizer.Optimize(steps, origin)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		// avg(0.9, 0.5) - 2km * 0.2 = 0.3
		assert.InDelta(t, 0.3, plans[0].TotalScore, 0.01)
	})
}
