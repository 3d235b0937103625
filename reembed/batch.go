package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/hirelens/hirelens/ai"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/ingestion"
	"github.com/hirelens/hirelens/storage"
)

// BatchProcessor regenerates embeddings for batches of experience records.
type BatchProcessor struct {
	repo           storage.ExperienceRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ExperienceRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates fresh embeddings for a batch of experiences and
// updates them in the store. Vectors are unit-normalized so cosine
// similarity stays a dot product.
func (bp *BatchProcessor) Process(ctx context.Context, experiences []*core.Experience) error {
	if len(experiences) == 0 {
		return nil
	}

	// Embed the same labeled text ingestion produces
	texts := make([]string, len(experiences))
	for i, exp := range experiences {
		texts[i] = ingestion.DocumentText(exp)
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(experiences) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(experiences), len(embeddings))
	}

	for i := range experiences {
		experiences[i].Vector = ingestion.NormalizeVector(embeddings[i])
	}

	_, err = bp.repo.UpdateExperiences(ctx, experiences...)
	if err != nil {
		return fmt.Errorf("failed to update experiences: %w", err)
	}

	return nil
}
