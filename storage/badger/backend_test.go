package badger

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/hirelens/hirelens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestPing(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.NoError(t, backend.Ping(context.Background()))

	require.NoError(t, backend.Close())
	assert.Error(t, backend.Ping(context.Background()))
}

func TestFindSimilar_NoRecords(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_NilVector(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_WithRecords(t *testing.T) {
	expRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	// Unit vectors with known cosines against the query (1,0,0):
	// exp-a: cos=1, exp-b: cos=0, exp-c: cos=-1, exp-d: no vector.
	experiences := []*core.Experience{
		{CandidateId: 1, Position: "A", StartDate: start, Vector: []float32{1, 0, 0}},
		{CandidateId: 2, Position: "B", StartDate: start, Vector: []float32{0, 1, 0}},
		{CandidateId: 3, Position: "C", StartDate: start, Vector: []float32{-1, 0, 0}},
		{CandidateId: 4, Position: "D", StartDate: start},
	}
	_, err = expRepo.AddExperiences(ctx, experiences...)
	require.NoError(t, err)

	results, err := backend.FindSimilar(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3, "record without a vector must be skipped")

	assert.Equal(t, "A", results[0].Summary.Position)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, "B", results[1].Summary.Position)
	assert.InDelta(t, 0.5, results[1].Similarity, 1e-6)
	assert.Equal(t, "C", results[2].Summary.Position)
	assert.InDelta(t, 0.0, results[2].Similarity, 1e-6)

	for _, r := range results {
		assert.False(t, math.IsNaN(r.Similarity))
		assert.GreaterOrEqual(t, r.Similarity, 0.0)
		assert.LessOrEqual(t, r.Similarity, 1.0)
	}
}

func TestFindSimilar_Limit(t *testing.T) {
	expRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := expRepo.AddExperiences(ctx, &core.Experience{
			CandidateId: core.ID(i + 1),
			Position:    "Engineer",
			StartDate:   start.AddDate(0, i, 0),
			Vector:      []float32{1, 0, 0},
		})
		require.NoError(t, err)
	}

	results, err := backend.FindSimilar(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
