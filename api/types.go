package api

import (
	"strconv"

	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/core"
)

// PlaceResult is one ranked place in an API response.
// The score components are exposed so clients can see why a place ranked
// where it did.
type PlaceResult struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	AvgRating     float64  `json:"avg_rating"`
	OpeningHours  string   `json:"opening_hours,omitempty"`
	PriceRange    string   `json:"price_range,omitempty"`
	AvatarURL     string   `json:"avatar_url,omitempty"`
	Menu          []string `json:"menu,omitempty"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	Score         float64  `json:"score"`
	SemanticScore float64  `json:"semantic_score"`
	LexicalScore  float64  `json:"lexical_score"`
	DistanceKm    float64  `json:"distance_km"`
}

// StepResult is one intent of a multi-step query with its candidates.
type StepResult struct {
	StepIndex  int           `json:"step_index"`
	Intent     ai.Intent     `json:"intent"`
	Candidates []PlaceResult `json:"candidates"`
}

// RouteResult is one route plan of a multi-step query.
type RouteResult struct {
	RouteID         string        `json:"route_id"`
	Stops           []PlaceResult `json:"stops"`
	TotalScore      float64       `json:"total_score"`
	TotalDistanceKm float64       `json:"total_distance_km"`
}

// MultiStepResponse is the v2 search response.
type MultiStepResponse struct {
	OriginalQuery string        `json:"original_query"`
	Steps         []StepResult  `json:"steps"`
	Routes        []RouteResult `json:"routes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toPlaceResult flattens a candidate for the wire.
func toPlaceResult(candidate core.Candidate) PlaceResult {
	place := candidate.Place
	menu := make([]string, 0, len(place.Menu))
	for _, item := range place.Menu {
		menu = append(menu, item.Name)
	}
	return PlaceResult{
		ID:            strconv.FormatUint(uint64(place.Id), 10),
		Name:          place.Name,
		Address:       place.Address,
		AvgRating:     place.AvgRating,
		OpeningHours:  place.OpeningHours,
		PriceRange:    place.PriceRange,
		AvatarURL:     place.AvatarURL,
		Menu:          menu,
		Lat:           place.Location.Lat,
		Lon:           place.Location.Lon,
		Score:         candidate.FinalScore,
		SemanticScore: candidate.SemanticScore,
		LexicalScore:  candidate.LexicalScore,
		DistanceKm:    candidate.DistanceKm,
	}
}

func toPlaceResults(candidates []core.Candidate) []PlaceResult {
	results := make([]PlaceResult, len(candidates))
	for i, candidate := range candidates {
		results[i] = toPlaceResult(candidate)
	}
	return results
}

func toRouteResults(plans []core.RoutePlan) []RouteResult {
	results := make([]RouteResult, len(plans))
	for i, plan := range plans {
		results[i] = RouteResult{
			RouteID:         plan.RouteID,
			Stops:           toPlaceResults(plan.Stops),
			TotalScore:      plan.TotalScore,
			TotalDistanceKm: plan.TotalDistanceKm,
		}
	}
	return results
}
