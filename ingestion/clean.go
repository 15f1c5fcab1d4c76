package ingestion

import (
	"strconv"
	"strings"
)

// cleanString trims a raw CSV field and substitutes the default for the
// NaN-like values the source exports produce.
func cleanString(raw, defaultValue string) string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "nan") || strings.EqualFold(value, "none") {
		return defaultValue
	}
	return value
}

// cleanFloat parses a raw CSV field as a float, substituting the default
// for empty, NaN-like, or unparsable values.
func cleanFloat(raw string, defaultValue float64) float64 {
	value := cleanString(raw, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
