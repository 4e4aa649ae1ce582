package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/embedding"
	"github.com/poiesic/commatch/vectorindex"
)

// BatchProcessor embeds a batch of profiles and writes the vectors to
// the index.
type BatchProcessor struct {
	index          vectorindex.Index
	embedder       *embedding.ProfileEmbedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding and index calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(index vectorindex.Index, embedder *embedding.ProfileEmbedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		index:          index,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds each profile in the batch and upserts its vector.
// Each profile is embedded from its three stored answers; chunking and
// normalization happen inside the embedder.
func (bp *BatchProcessor) Process(ctx context.Context, profiles []*core.Profile) error {
	for _, profile := range profiles {
		var vector []float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			vector, err = bp.embedder.EmbedProfile(ctx, profile.Field, profile.Seeking, profile.Offering)
			return err
		}, bp.maxRetries, bp.retryBaseDelay)
		if err != nil {
			return fmt.Errorf("failed to embed profile %d after %d attempts: %w", profile.Id, bp.maxRetries, err)
		}

		err = RetryWithBackoff(ctx, func() error {
			return bp.index.Upsert(ctx, profile.Id, vector)
		}, bp.maxRetries, bp.retryBaseDelay)
		if err != nil {
			return fmt.Errorf("failed to index profile %d after %d attempts: %w", profile.Id, bp.maxRetries, err)
		}
	}
	return nil
}
