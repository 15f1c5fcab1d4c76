// Package ingestion loads the crawler's CSV exports into the place store.
//
// The restaurant export uses fixed column positions; reviews and menu
// items are matched to restaurants by source URL. Rows with invalid
// coordinates or missing required fields are excluded and counted rather
// than stored with defaults.
package ingestion
