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


package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/search"
)

// defaultCenter is central Hồ Chí Minh City, used when the client sends no
// coordinates.
var defaultCenter = core.GeoPoint{Lat: 10.7769, Lon: 106.7009}

const multiStepTopK = 5

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch serves GET /api/v1/search.
// Parameters: q (required), district, lat, lon, radius, alpha, top_k.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.ranker.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service not ready"})
		return
	}

	text := strings.TrimSpace(r.URL.Query().Get("q"))
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q is required"})
		return
	}

	query := s.queryFromRequest(r, text)
	query.Locality = strings.TrimSpace(r.URL.Query().Get("district"))

	candidates, err := s.ranker.Rank(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", "query", text, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, toPlaceResults(candidates))
}

// handleMultiStepSearch serves GET /api/v2/search.
// The query is parsed into intents; each intent gets its own ranked
// candidate list and the route planner combines them into plans.
func (s *Server) handleMultiStepSearch(w http.ResponseWriter, r *http.Request) {
	if !s.ranker.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service not ready"})
		return
	}

	text := strings.TrimSpace(r.URL.Query().Get("q"))
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q is required"})
		return
	}

	intents, err := s.parser.ParseIntents(r.Context(), text)
	if err != nil || len(intents) == 0 {
		// Degrade to a literal single-intent search
		s.logger.Warn("intent parsing failed, using query verbatim", "query", text, "err", err)
		intents = []ai.Intent{{Keyword: text}}
	}

	base := s.queryFromRequest(r, text)
	if base.TopK == search.DefaultTopK && r.URL.Query().Get("top_k") == "" {
		base.TopK = multiStepTopK
	}

	steps := make([]core.Step, 0, len(intents))
	results := make([]StepResult, 0, len(intents))
	for i, intent := range intents {
		query := base
		query.Text = intent.Keyword
		query.Locality = intent.Locality

		candidates, err := s.ranker.Rank(r.Context(), query)
		if err != nil {
			s.logger.Error("step search failed", "keyword", intent.Keyword, "err", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		steps = append(steps, core.Step{
			Index:      i,
			Keyword:    intent.Keyword,
			Locality:   intent.Locality,
			Candidates: candidates,
		})
		results = append(results, StepResult{
			StepIndex:  i + 1,
			Intent:     intent,
			Candidates: toPlaceResults(candidates),
		})
	}

	start := defaultCenter
	if base.Center != nil {
		start = *base.Center
	}
	plans, err := s.planner.Optimize(steps, start)
	if err != nil {
		s.logger.Error("route optimization failed", "query", text, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, MultiStepResponse{
		OriginalQuery: text,
		Steps:         results,
		Routes:        toRouteResults(plans),
	})
}

// queryFromRequest builds a ranking query from the shared URL parameters.
func (s *Server) queryFromRequest(r *http.Request, text string) search.Query {
	params := r.URL.Query()
	query := search.NewQuery(text)

	center := defaultCenter
	if lat, ok := floatParam(params.Get("lat")); ok {
		center.Lat = lat
	}
	if lon, ok := floatParam(params.Get("lon")); ok {
		center.Lon = lon
	}
	query.Center = &center

	if radius, ok := floatParam(params.Get("radius")); ok {
		query.RadiusKm = radius
	}
	if alpha, ok := floatParam(params.Get("alpha")); ok {
		query.Alpha = alpha
	}
	if topK, err := strconv.Atoi(params.Get("top_k")); err == nil && topK > 0 {
		query.TopK = topK
	}
	return query
}

func floatParam(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("error encoding response", "err", err)
	}
}
