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


package ingestion

import (
	"log/slog"
	"strconv"

	"github.com/tastetrail/tastetrail/core"
)

// defaultPlaceName is what unnamed source rows are called.
const defaultPlaceName = "Không tên"

// buildPlaces assembles Place records from the parsed exports.
//
// Rows with unparsable or out-of-range coordinates are excluded from the
// result, not defaulted to (0, 0); the count of exclusions is reported so
// operators can see silent data loss. Reviews and menu items are joined by
// source URL.
func buildPlaces(
	restaurants []restaurantRow,
	reviews []reviewRow,
	menus []menuRow,
	logger *slog.Logger,
) ([]*core.Place, int) {
	reviewsByURL := groupReviews(reviews)
	menuByURL := groupMenus(menus)

	places := make([]*core.Place, 0, len(restaurants))
	excluded := 0

	for _, row := range restaurants {
		sourceURL := cleanString(row.SourceURL, "")
		if sourceURL == "" {
			excluded++
			logger.Warn("restaurant row has no source url, excluded", "name", row.Name)
			continue
		}

		location, ok := parseLocation(row.Lat, row.Lon)
		if !ok {
			excluded++
			logger.Warn("restaurant row has invalid coordinates, excluded",
				"source_url", sourceURL, "lat", row.Lat, "lon", row.Lon)
			continue
		}

		places = append(places, &core.Place{
			Id:           core.IDFromContent(sourceURL),
			Name:         cleanString(row.Name, defaultPlaceName),
			Address:      cleanString(row.Address, ""),
			Location:     location,
			AvgRating:    cleanFloat(row.AvgRating, 0),
			OpeningHours: cleanString(row.OpeningHours, ""),
			PriceRange:   cleanString(row.PriceRange, ""),
			AvatarURL:    cleanString(row.AvatarURL, ""),
			SourceURL:    sourceURL,
			Menu:         menuByURL[sourceURL],
			Reviews:      reviewsByURL[sourceURL],
			Scores: core.AttributeScores{
				Space:    cleanFloat(row.ScoreSpace, 0),
				Position: cleanFloat(row.ScorePos, 0),
				Quality:  cleanFloat(row.ScoreQuality, 0),
				Service:  cleanFloat(row.ScoreService, 0),
				Price:    cleanFloat(row.ScorePrice, 0),
			},
		})
	}

	return places, excluded
}

// parseLocation parses and validates a coordinate pair.
func parseLocation(latRaw, lonRaw string) (core.GeoPoint, bool) {
	lat, latErr := strconv.ParseFloat(cleanString(latRaw, ""), 64)
	lon, lonErr := strconv.ParseFloat(cleanString(lonRaw, ""), 64)
	if latErr != nil || lonErr != nil {
		return core.GeoPoint{}, false
	}
	point := core.GeoPoint{Lat: lat, Lon: lon}
	return point, point.Valid()
}

// groupReviews buckets cleaned reviews by source URL.
func groupReviews(rows []reviewRow) map[string][]core.Review {
	grouped := make(map[string][]core.Review)
	for _, row := range rows {
		url := cleanString(row.SourceURL, "")
		if url == "" {
			continue
		}
		grouped[url] = append(grouped[url], core.Review{
			Rating:  cleanFloat(row.Rating, 0),
			Content: cleanString(row.Content, ""),
			Author:  cleanString(row.Author, ""),
		})
	}
	return grouped
}

// groupMenus buckets cleaned menu items by source URL.
// Nameless items are dropped; an unparsable price becomes 0 (unknown).
func groupMenus(rows []menuRow) map[string][]core.MenuItem {
	grouped := make(map[string][]core.MenuItem)
	for _, row := range rows {
		url := cleanString(row.SourceURL, "")
		name := cleanString(row.Name, "")
		if url == "" || name == "" {
			continue
		}
		grouped[url] = append(grouped[url], core.MenuItem{
			Name:  name,
			Price: cleanFloat(row.Price, 0),
		})
	}
	return grouped
}
