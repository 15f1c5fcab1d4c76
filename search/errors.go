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

import "errors"

var (
	// ErrRepositoryRequired indicates that a place repository was not provided.
	ErrRepositoryRequired = errors.New("place repository is required")

	// ErrSemanticIndexRequired indicates that a semantic index was not provided.
	ErrSemanticIndexRequired = errors.New("semantic index is required")

	// ErrEmbedderRequired indicates that an embedder was not provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbeddingCacheRequired indicates that an embedding cache was not provided.
	ErrEmbeddingCacheRequired = errors.New("embedding cache is required")

	// ErrEmbeddingCountMismatch indicates the embedding backend returned a
	// different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrNotReady indicates the engine has not finished building its indices.
	// Callers must distinguish this from an empty result.
	ErrNotReady = errors.New("search engine not ready")
)
