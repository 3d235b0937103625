package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/hirelens/hirelens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceIterator_ForEach(t *testing.T) {
	repo := setupTestRepo(t)
	seedExperiences(t, repo, 7)

	iterator := NewExperienceIterator(repo, 3)

	var batchSizes []int
	total := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Experience) error {
		batchSizes = append(batchSizes, len(batch))
		total += len(batch)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 7, total, "should visit every record")
	assert.Equal(t, []int{3, 3, 1}, batchSizes, "should flush the remainder as a final batch")
}

func TestExperienceIterator_ForEach_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	iterator := NewExperienceIterator(repo, 3)

	calls := 0
	err := iterator.ForEach(context.Background(), func([]*core.Experience) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "empty store should produce no batches")
}

func TestExperienceIterator_ForEach_CallbackError(t *testing.T) {
	repo := setupTestRepo(t)
	seedExperiences(t, repo, 5)

	iterator := NewExperienceIterator(repo, 2)

	callbackErr := errors.New("batch failed")
	calls := 0
	err := iterator.ForEach(context.Background(), func([]*core.Experience) error {
		calls++
		return callbackErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, callbackErr)
	assert.Equal(t, 1, calls, "should stop after the first failing batch")
}

func TestExperienceIterator_Count(t *testing.T) {
	repo := setupTestRepo(t)
	seedExperiences(t, repo, 4)

	iterator := NewExperienceIterator(repo, 10)

	count, err := iterator.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestNewExperienceIterator_DefaultBatchSize(t *testing.T) {
	repo := setupTestRepo(t)

	iterator := NewExperienceIterator(repo, 0)
	assert.Equal(t, DefaultBatchSize, iterator.batchSize)

	iterator = NewExperienceIterator(repo, -5)
	assert.Equal(t, DefaultBatchSize, iterator.batchSize)
}
