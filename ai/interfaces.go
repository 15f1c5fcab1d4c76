package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IntentParser turns a natural-language query into an ordered sequence of
// search intents. Implementations must be thread-safe for concurrent use.
type IntentParser interface {
	// ParseIntents splits a free-text query such as "eat pho then coffee in
	// district 1" into ordered steps, each with a search keyword and an
	// optional locality. A query with a single intent yields one step.
	// Returns an error if parsing fails; callers typically fall back to
	// treating the whole query as one keyword.
	ParseIntents(ctx context.Context, query string) ([]Intent, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and IntentParser instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// IntentParser returns the query intent parsing service.
	// The returned IntentParser is safe for concurrent use.
	IntentParser() IntentParser

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
