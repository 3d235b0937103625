package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/storage"
)

// TranslationRepository implements storage.TranslationRepository for
// BadgerDB. Entries expire via badger's native TTL support, so stale
// translations vanish without a sweeper.
type TranslationRepository struct {
	backend *Backend
}

var _ storage.TranslationRepository = (*TranslationRepository)(nil)

// NewTranslationRepository creates a new TranslationRepository.
func NewTranslationRepository(backend *Backend) *TranslationRepository {
	return &TranslationRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *TranslationRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *TranslationRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SemanticMatch, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// WithTransaction delegates to the backend.
func (r *TranslationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Ping delegates to the backend.
func (r *TranslationRepository) Ping(ctx context.Context) error {
	return r.backend.Ping(ctx)
}

// GetTranslation returns the cached translation for text.
// Expired entries are treated as misses.
func (r *TranslationRepository) GetTranslation(ctx context.Context, text string) (string, bool, error) {
	var translated string
	found := false

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTranslationKey(text))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			translated = string(val)
			found = true
			return nil
		})
	}, false)

	if err != nil {
		return "", false, err
	}
	return translated, found, nil
}

// PutTranslation stores a translation with the given time-to-live.
func (r *TranslationRepository) PutTranslation(ctx context.Context, text, translated string, ttl time.Duration) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeTranslationKey(text), []byte(translated))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
