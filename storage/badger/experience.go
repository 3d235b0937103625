package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/storage"
)

// ExperienceRepository implements storage.ExperienceRepository for BadgerDB.
type ExperienceRepository struct {
	backend *Backend
}

var _ storage.ExperienceRepository = (*ExperienceRepository)(nil)

// NewExperienceRepository creates a new ExperienceRepository.
func NewExperienceRepository(backend *Backend) *ExperienceRepository {
	return &ExperienceRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *ExperienceRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ExperienceRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SemanticMatch, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// WithTransaction delegates to the backend.
func (r *ExperienceRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Ping delegates to the backend.
func (r *ExperienceRepository) Ping(ctx context.Context) error {
	return r.backend.Ping(ctx)
}

// experienceIdentity builds the stable textual identity an experience is
// content-hashed from. Two records for the same candidate, position,
// company and start date are the same record.
func experienceIdentity(exp *core.Experience) string {
	return fmt.Sprintf("%d|%s|%s|%d",
		exp.CandidateId, exp.Position, exp.Company, exp.StartDate.UnixMicro())
}

// AddExperiences adds one or more experience records to storage.
// Records with ID=0 get a content-based ID, so re-ingesting the same
// record overwrites rather than duplicates.
func (r *ExperienceRepository) AddExperiences(ctx context.Context, experiences ...*core.Experience) ([]*core.Experience, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, exp := range experiences {
			if err := core.ValidateExperience(exp); err != nil {
				return err
			}
			if exp.Id == 0 {
				exp.Id = core.IDFromContent(experienceIdentity(exp))
			}
			if exp.InsertedAt.IsZero() {
				exp.InsertedAt = time.Now().UTC()
			}
			exp.UpdatedAt = exp.InsertedAt

			key := makeExperienceKey(exp.Id)
			if err := tx.Set(key, storage.MarshalExperience(exp)); err != nil {
				return err
			}

			candKey := makeCandidateKey(exp.CandidateId, exp.Id)
			if err := tx.Set(candKey, storage.MarshalID(exp.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return experiences, err
}

// UpdateExperiences updates existing experience records.
func (r *ExperienceRepository) UpdateExperiences(ctx context.Context, experiences ...*core.Experience) ([]*core.Experience, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, exp := range experiences {
			key := makeExperienceKey(exp.Id)

			old, err := readExperience(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			exp.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalExperience(exp)); err != nil {
				return err
			}

			// Update candidate index if the record moved
			if old.CandidateId != exp.CandidateId {
				if err := tx.Delete(makeCandidateKey(old.CandidateId, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeCandidateKey(exp.CandidateId, exp.Id), storage.MarshalID(exp.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return experiences, err
}

// DeleteExperiences removes experience records by their IDs.
func (r *ExperienceRepository) DeleteExperiences(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeExperienceKey(id)

			exp, err := readExperience(tx, key)
			if err != nil {
				return err
			}
			if exp == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeCandidateKey(exp.CandidateId, exp.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetExperience retrieves a single experience record by ID.
func (r *ExperienceRepository) GetExperience(ctx context.Context, id core.ID) (*core.Experience, error) {
	var result *core.Experience
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readExperience(tx, makeExperienceKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetExperiences retrieves multiple experience records by their IDs.
func (r *ExperienceRepository) GetExperiences(ctx context.Context, ids ...core.ID) ([]*core.Experience, error) {
	var result []*core.Experience
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			exp, err := readExperience(tx, makeExperienceKey(id))
			if err != nil {
				return err
			}
			if exp != nil {
				result = append(result, exp)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetExperiencesByCandidate retrieves all experience records for a candidate.
func (r *ExperienceRepository) GetExperiencesByCandidate(ctx context.Context, candidateID core.ID) ([]*core.Experience, error) {
	var results []*core.Experience
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialCandidateKey(candidateID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			var expID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				expID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			exp, err := readExperience(tx, makeExperienceKey(expID))
			if err != nil {
				return err
			}
			if exp != nil {
				results = append(results, exp)
			}
		}
		return nil
	}, false)

	return results, err
}

// IterateExperiences calls fn for every stored experience record.
func (r *ExperienceRepository) IterateExperiences(ctx context.Context, fn func(exp *core.Experience) (bool, error)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(experiencePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var exp *core.Experience
			err := iter.Item().Value(func(val []byte) error {
				var err error
				exp, err = storage.UnmarshalExperience(val)
				return err
			})
			if err != nil {
				return err
			}

			cont, err := fn(exp)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	}, false)
}

// readExperience reads an experience record from the transaction.
func readExperience(tx *badger.Txn, key []byte) (*core.Experience, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var exp *core.Experience
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		exp, unmarshalErr = storage.UnmarshalExperience(val)
		return unmarshalErr
	})
	return exp, err
}
