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

import (
	"strings"
	"unicode/utf8"

	"github.com/tastetrail/tastetrail/core"
)

const (
	maxMenuItemsInText  = 30
	maxReviewsInText    = 10
	maxReviewTextChars  = 2000
	qualityScoreCutoff  = 8.0
	defaultCuisineGuess = "Vietnamese Food"
)

// cuisineMarkers maps dish keywords found in a place's name or menu to a
// category label that biases the embedding toward the right cuisine.
// Order matters: the first match wins.
var cuisineMarkers = []struct {
	keyword  string
	category string
}{
	{"bánh mì", "Vietnamese Sandwich"},
	{"hải sản", "Seafood"},
	{"trà sữa", "Milk Tea"},
	{"cà phê", "Coffee"},
	{"phở", "Vietnamese Pho Noodle"},
	{"bún", "Vietnamese Vermicelli"},
	{"cơm", "Vietnamese Rice"},
	{"lẩu", "Hotpot"},
	{"nướng", "BBQ Grill"},
	{"ốc", "Snail Seafood"},
	{"cafe", "Coffee"},
	{"pizza", "Pizza Italian"},
	{"sushi", "Japanese Sushi"},
}

// DescriptiveText builds the canonical embedding text for a place.
// Pure function of the place's fields; the same place always yields the
// same string. Empty fields are skipped.
func DescriptiveText(place *core.Place) string {
	var parts []string

	if place.Name != "" {
		parts = append(parts, "Name: "+place.Name)
	}

	parts = append(parts, "Category: "+guessCuisine(place))

	menuNames := menuItemNames(place.Menu, maxMenuItemsInText)
	if len(menuNames) > 0 {
		joined := strings.Join(menuNames, ", ")
		parts = append(parts, "Menu: "+joined)
		// Repeat name + dishes to weight them higher in the embedding
		if place.Name != "" {
			parts = append(parts, "Signature Dishes of "+place.Name+": "+joined)
		}
	}

	if reviews := reviewText(place.Reviews, maxReviewsInText, maxReviewTextChars); reviews != "" {
		parts = append(parts, "Reviews: "+reviews)
	}

	if place.Address != "" {
		parts = append(parts, "Address: "+place.Address)
	}

	if place.Scores.Service >= qualityScoreCutoff {
		parts = append(parts, "Excellent service")
	}
	if place.Scores.Space >= qualityScoreCutoff {
		parts = append(parts, "Beautiful space nice view")
	}
	if place.Scores.Price >= qualityScoreCutoff {
		parts = append(parts, "Good price reasonable")
	}

	return strings.Join(parts, ". ")
}

// guessCuisine derives a category label from the place name and menu.
func guessCuisine(place *core.Place) string {
	haystack := strings.ToLower(place.Name)
	for _, item := range place.Menu {
		haystack += " " + strings.ToLower(item.Name)
	}

	for _, marker := range cuisineMarkers {
		if strings.Contains(haystack, marker.keyword) {
			return marker.category
		}
	}
	return defaultCuisineGuess
}

// menuItemNames returns up to limit non-empty menu item names.
func menuItemNames(menu []core.MenuItem, limit int) []string {
	names := make([]string, 0, min(len(menu), limit))
	for _, item := range menu {
		if len(names) >= limit {
			break
		}
		name := strings.TrimSpace(item.Name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// reviewText joins up to limit review contents, capped at budget characters.
func reviewText(reviews []core.Review, limit, budget int) string {
	var b strings.Builder
	count := 0
	for _, review := range reviews {
		if count >= limit || b.Len() >= budget {
			break
		}
		content := strings.TrimSpace(review.Content)
		if content == "" {
			continue
		}
		if count > 0 {
			b.WriteString(" ")
		}
		b.WriteString(content)
		count++
	}
	text := b.String()
	if len(text) > budget {
		cut := budget
		// Back off to a rune boundary so truncation never splits a character
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
