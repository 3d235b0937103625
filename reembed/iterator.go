// Copyright 2025 Hirelens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/storage"
)

const (
	// DefaultBatchSize is the default number of records to collect per batch
	DefaultBatchSize = 100
)

// ExperienceIterator streams all stored experience records in batches.
type ExperienceIterator struct {
	repo      storage.ExperienceRepository
	batchSize int
}

// NewExperienceIterator creates a new experience iterator.
// batchSize: number of records per batch (must be > 0)
func NewExperienceIterator(repo storage.ExperienceRepository, batchSize int) *ExperienceIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ExperienceIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all experience records, calling fn for each
// batch. Iteration stops on the first error from fn. Context
// cancellation is honored by the underlying store iteration.
func (it *ExperienceIterator) ForEach(ctx context.Context, fn func([]*core.Experience) error) error {
	batch := make([]*core.Experience, 0, it.batchSize)

	err := it.repo.IterateExperiences(ctx, func(exp *core.Experience) (bool, error) {
		batch = append(batch, exp)
		if len(batch) < it.batchSize {
			return true, nil
		}
		if err := fn(batch); err != nil {
			return false, err
		}
		batch = make([]*core.Experience, 0, it.batchSize)
		return true, nil
	})
	if err != nil {
		return err
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

// Count returns the total number of stored experience records.
func (it *ExperienceIterator) Count(ctx context.Context) (int, error) {
	count := 0
	err := it.repo.IterateExperiences(ctx, func(*core.Experience) (bool, error) {
		count++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
