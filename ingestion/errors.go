package ingestion

import "errors"

var (
	// ErrRepositoryRequired indicates that a place repository was not provided.
	ErrRepositoryRequired = errors.New("place repository is required")

	// ErrMissingColumn indicates a required CSV column is absent.
	ErrMissingColumn = errors.New("missing csv column")

	// ErrRestaurantSourceRequired indicates no restaurant source was provided.
	ErrRestaurantSourceRequired = errors.New("restaurant source is required")
)
