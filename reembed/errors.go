package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrRepositoryRequired is returned when a nil place repository is provided
	ErrRepositoryRequired = errors.New("place repository is required")

	// ErrEmbedderRequired is returned when a nil embedder is provided
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrCacheRequired is returned when a nil embedding cache is provided
	ErrCacheRequired = errors.New("embedding cache is required")
)
