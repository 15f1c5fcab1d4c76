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
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/search"
)

// Ranker is the slice of the search engine the API consumes.
type Ranker interface {
	Ready() bool
	Rank(ctx context.Context, query search.Query) ([]core.Candidate, error)
}

// RoutePlanner is the slice of the route optimizer the API consumes.
type RoutePlanner interface {
	Optimize(steps []core.Step, start core.GeoPoint) ([]core.RoutePlan, error)
}

// Server serves the search API over HTTP.
type Server struct {
	ranker  Ranker
	parser  ai.IntentParser
	planner RoutePlanner
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates an API server over the ranker, intent parser, and
// route planner.
func NewServer(ranker Ranker, parser ai.IntentParser, planner RoutePlanner, opts ...Option) (*Server, error) {
	if ranker == nil {
		return nil, ErrRankerRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if planner == nil {
		return nil, ErrPlannerRequired
	}

	s := &Server{
		ranker:  ranker,
		parser:  parser,
		planner: planner,
		logger:  slog.Default().With("component", "api"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/api/v2/search", s.handleMultiStepSearch).Methods(http.MethodGet)
	return router
}
