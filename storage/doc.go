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


// Package storage defines the persistence interfaces of Tastetrail and the
// MUS serialization helpers shared by their implementations.
//
// Two stores exist: the PlaceRepository holding the ingested corpus in
// insertion order, and the EmbeddingCache holding persisted place embeddings
// keyed by place ID under a format version tag. The storage/badger
// sub-package implements both on a single BadgerDB instance.
package storage
