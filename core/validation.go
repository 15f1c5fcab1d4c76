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

import "fmt"

// ValidatePlace validates a Place according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - SourceURL must not be empty (IDs derive from it)
//   - Location must hold finite WGS84 coordinates
//
// NOT validated:
//   - Menu and Reviews (may legitimately be empty)
//   - Scores (0 means "not scored")
//   - ID (0 is valid before ingestion assigns one)
func ValidatePlace(place *Place) error {
	if place == nil {
		return fmt.Errorf("%w: place is nil", ErrInvalidPlace)
	}

	if place.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlace, ErrEmptyPlaceName)
	}

	if place.SourceURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlace, ErrEmptySourceURL)
	}

	if !place.Location.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidPlace, ErrInvalidLocation)
	}

	return nil
}
