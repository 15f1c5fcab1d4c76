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


package tastetrail

import (
	"log/slog"

	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/ai/openai"
	"github.com/tastetrail/tastetrail/api"
	"github.com/tastetrail/tastetrail/ingestion"
	"github.com/tastetrail/tastetrail/route"
	"github.com/tastetrail/tastetrail/search"
	"github.com/tastetrail/tastetrail/storage"
	"github.com/tastetrail/tastetrail/storage/badger"
)

// Database bundles the storage backend, the AI provider, and the
// constructors for the pipeline, engine, and API server.
type Database struct {
	backend   *badger.Backend
	placeRepo storage.PlaceRepository
	cache     storage.EmbeddingCache
	provider  ai.AIProvider
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI backend configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built AI provider, bypassing the OpenAI
// client construction. Used by tests and offline tooling.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens the place store at filePath and wires the AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create place repository
	placeRepo, err := badger.NewPlaceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create embedding cache on the same backend
	cache := badger.NewEmbeddingCache(backend)

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			placeRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:   backend,
		placeRepo: placeRepo,
		cache:     cache,
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.cache.Close(); err != nil {
		db.logger.Error("error closing embedding cache", "err", err)
	}
	if err := db.placeRepo.Close(); err != nil {
		db.logger.Error("error closing place repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) PlaceRepository() storage.PlaceRepository {
	return db.placeRepo
}

func (db *Database) EmbeddingCache() storage.EmbeddingCache {
	return db.cache
}

// Embedder exposes the provider's text embedder.
func (db *Database) Embedder() ai.Embedder {
	return db.provider.Embedder()
}

// IntentParser exposes the provider's multi-stop query parser.
func (db *Database) IntentParser() ai.IntentParser {
	return db.provider.IntentParser()
}

// NewRouteOptimizer builds a multi-stop route optimizer.
func (db *Database) NewRouteOptimizer(opts ...route.Option) (*route.Optimizer, error) {
	return route.NewOptimizer(opts...)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.placeRepo, opts...)
}

// NewEngine builds the hybrid search engine over this database.
// The caller still has to Build (or Resync) it before ranking.
func (db *Database) NewEngine(opts ...search.Option) (*search.Engine, error) {
	semantic, err := search.NewSemanticIndex(db.provider.Embedder(), db.cache)
	if err != nil {
		return nil, err
	}
	return search.NewEngine(db.placeRepo, semantic, opts...)
}

// NewServer builds the HTTP API over a ready-to-build engine and a route
// optimizer.
func (db *Database) NewServer(engine *search.Engine, opts ...route.Option) (*api.Server, error) {
	optimizer, err := route.NewOptimizer(opts...)
	if err != nil {
		return nil, err
	}
	return api.NewServer(engine, db.provider.IntentParser(), optimizer)
}
