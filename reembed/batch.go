package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/search"
)

// BatchProcessor generates embeddings for batches of places.
type BatchProcessor struct {
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the descriptive text of a batch of places and returns the
// id -> vector mapping. Vectors are normalized so that dot products can
// stand in for cosine similarity downstream.
func (bp *BatchProcessor) Process(ctx context.Context, places []*core.Place) (map[core.ID][]float32, error) {
	if len(places) == 0 {
		return map[core.ID][]float32{}, nil
	}

	texts := make([]string, len(places))
	for i, place := range places {
		texts[i] = search.DescriptiveText(place)
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(places) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(places), len(embeddings))
	}

	vectors := make(map[core.ID][]float32, len(places))
	for i, place := range places {
		search.NormalizeL2(embeddings[i])
		vectors[place.Id] = embeddings[i]
	}
	return vectors, nil
}
