package storage

import (
	"context"
	"time"

	"github.com/hirelens/hirelens/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds experiences similar to the given vector.
	// Similarity is normalized to [0,1] via (1+cosine)/2; results are
	// ordered by similarity descending, up to limit results (a
	// non-positive limit applies the backend default). A nil or empty
	// vector yields an empty result, never an error.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SemanticMatch, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Ping verifies the backend is reachable and writable.
	Ping(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ExperienceRepository provides operations for managing work-experience records.
type ExperienceRepository interface {
	Repository
	// AddExperiences adds one or more experience records to storage.
	// For records with ID=0, generates content-based IDs.
	// Sets InsertedAt timestamp if not already set.
	// Returns the records with generated IDs and timestamps populated.
	AddExperiences(ctx context.Context, experiences ...*core.Experience) ([]*core.Experience, error)

	// UpdateExperiences updates existing experience records.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateExperiences(ctx context.Context, experiences ...*core.Experience) ([]*core.Experience, error)

	// DeleteExperiences removes experience records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteExperiences(ctx context.Context, ids ...core.ID) error

	// GetExperience retrieves a single experience record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetExperience(ctx context.Context, id core.ID) (*core.Experience, error)

	// GetExperiences retrieves multiple experience records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetExperiences(ctx context.Context, ids ...core.ID) ([]*core.Experience, error)

	// GetExperiencesByCandidate retrieves all experience records for a candidate.
	GetExperiencesByCandidate(ctx context.Context, candidateID core.ID) ([]*core.Experience, error)

	// IterateExperiences calls fn for every stored experience record.
	// Iteration stops when fn returns false or an error.
	IterateExperiences(ctx context.Context, fn func(exp *core.Experience) (bool, error)) error
}

// TranslationRepository persists translations keyed by source text.
// It satisfies ai.TranslationCache so a repository can back the
// translation layer directly.
type TranslationRepository interface {
	Repository
	// GetTranslation returns the cached translation for text and whether
	// it was found. A miss is not an error. Expired entries are misses.
	GetTranslation(ctx context.Context, text string) (string, bool, error)

	// PutTranslation stores a translation with the given time-to-live.
	// A non-positive ttl stores the entry without expiry.
	PutTranslation(ctx context.Context, text, translated string, ttl time.Duration) error
}
