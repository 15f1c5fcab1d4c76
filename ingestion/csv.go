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
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// restaurantRow is one row of the restaurant export. Columns are
// positional; the header row carries the crawler's own labels and is
// skipped.
type restaurantRow struct {
	Name         string
	AvgRating    string
	Address      string
	OpeningHours string
	PriceRange   string
	Lat          string
	Lon          string
	ScoreSpace   string
	ScorePos     string
	ScoreQuality string
	ScoreService string
	ScorePrice   string
	AvatarURL    string
	SourceURL    string
}

const restaurantColumnCount = 14

// reviewRow is one row of the review export, keyed by source URL.
type reviewRow struct {
	SourceURL string
	Rating    string
	Content   string
	Author    string
}

// menuRow is one row of the menu export, keyed by source URL.
type menuRow struct {
	SourceURL string
	Name      string
	Price     string
}

// ReadRestaurantCSV parses the restaurant export.
// The first row is treated as a header and skipped.
func ReadRestaurantCSV(r io.Reader) ([]restaurantRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = restaurantColumnCount

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading restaurant csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]restaurantRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, restaurantRow{
			Name:         record[0],
			AvgRating:    record[1],
			Address:      record[2],
			OpeningHours: record[3],
			PriceRange:   record[4],
			Lat:          record[5],
			Lon:          record[6],
			ScoreSpace:   record[7],
			ScorePos:     record[8],
			ScoreQuality: record[9],
			ScoreService: record[10],
			ScorePrice:   record[11],
			AvatarURL:    record[12],
			SourceURL:    record[13],
		})
	}
	return rows, nil
}

// ReadReviewCSV parses the review export. Columns are located by header
// name: url_goc, diem_review, noi_dung, and the optional tac_gia.
func ReadReviewCSV(r io.Reader) ([]reviewRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading review csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := headerIndex(records[0])
	urlCol, ok := columns["url_goc"]
	if !ok {
		return nil, fmt.Errorf("%w: url_goc", ErrMissingColumn)
	}
	ratingCol, ok := columns["diem_review"]
	if !ok {
		return nil, fmt.Errorf("%w: diem_review", ErrMissingColumn)
	}
	contentCol, ok := columns["noi_dung"]
	if !ok {
		return nil, fmt.Errorf("%w: noi_dung", ErrMissingColumn)
	}
	authorCol, hasAuthor := columns["tac_gia"]

	rows := make([]reviewRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := reviewRow{
			SourceURL: field(record, urlCol),
			Rating:    field(record, ratingCol),
			Content:   field(record, contentCol),
		}
		if hasAuthor {
			row.Author = field(record, authorCol)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadMenuCSV parses the menu export. Columns are located by header name:
// url_goc, ten_mon, and the optional gia.
func ReadMenuCSV(r io.Reader) ([]menuRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading menu csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := headerIndex(records[0])
	urlCol, ok := columns["url_goc"]
	if !ok {
		return nil, fmt.Errorf("%w: url_goc", ErrMissingColumn)
	}
	nameCol, ok := columns["ten_mon"]
	if !ok {
		return nil, fmt.Errorf("%w: ten_mon", ErrMissingColumn)
	}
	priceCol, hasPrice := columns["gia"]

	rows := make([]menuRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := menuRow{
			SourceURL: field(record, urlCol),
			Name:      field(record, nameCol),
		}
		if hasPrice {
			row.Price = field(record, priceCol)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return columns
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return record[col]
}
