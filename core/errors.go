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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPlace indicates a Place failed validation.
	ErrInvalidPlace = errors.New("invalid place")

	// ErrEmptyPlaceName indicates the Name field is empty.
	ErrEmptyPlaceName = errors.New("place name cannot be empty")

	// ErrInvalidLocation indicates the location coordinates are missing,
	// non-finite, or outside WGS84 range.
	ErrInvalidLocation = errors.New("location coordinates are invalid")

	// ErrEmptySourceURL indicates the SourceURL field is empty.
	// The source URL is the stable identity the content-based ID derives from.
	ErrEmptySourceURL = errors.New("source URL cannot be empty")
)
