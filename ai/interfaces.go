package ai

import (
	"context"
	"time"
)

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

// Translator translates text into the canonical search language.
// Implementations must be thread-safe for concurrent use.
type Translator interface {
	// Translate converts text into the canonical language. Text already in
	// the canonical language must be returned unchanged. The translation
	// preserves professional terminology rather than rendering it literally.
	// Returns an error if translation fails; callers decide whether to
	// degrade to the original text.
	Translate(ctx context.Context, text string) (string, error)
}

// TranslationCache persists translations keyed by source text so repeated
// queries and re-ingested records skip the model round trip.
// Implementations must be thread-safe for concurrent use.
type TranslationCache interface {
	// GetTranslation returns the cached translation for text and whether
	// it was found. A miss is not an error.
	GetTranslation(ctx context.Context, text string) (string, bool, error)

	// PutTranslation stores a translation with the given time-to-live.
	// A non-positive ttl stores the entry without expiry.
	PutTranslation(ctx context.Context, text, translated string, ttl time.Duration) error
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Translator instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Translator returns the translation service.
	// The returned Translator is safe for concurrent use.
	Translator() Translator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
