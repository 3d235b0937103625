package search

import (
	"context"
	"log/slog"

	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/storage"
)

// defaultSemanticLimit bounds similarity retrieval when the caller
// passes no limit.
const defaultSemanticLimit = 100

// SemanticRetriever finds experiences by vector similarity. The store
// returns similarity pre-normalized to [0,1].
type SemanticRetriever struct {
	store  storage.Repository
	logger *slog.Logger
}

// NewSemanticRetriever creates a semantic retriever.
func NewSemanticRetriever(store storage.Repository, logger *slog.Logger) (*SemanticRetriever, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticRetriever{store: store, logger: logger}, nil
}

// Retrieve finds up to limit experiences most similar to vector.
// A nil or empty vector yields an empty result, never an error.
func (r *SemanticRetriever) Retrieve(ctx context.Context, vector []float32, limit int) ([]core.SemanticMatch, error) {
	if len(vector) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSemanticLimit
	}

	hits, err := r.store.FindSimilar(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	matches := make([]core.SemanticMatch, 0, len(hits))
	for _, hit := range hits {
		if hit == nil {
			continue
		}
		matches = append(matches, *hit)
	}
	return matches, nil
}
