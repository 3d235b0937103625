package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hirelens/hirelens/ai/mock"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/index"
	"github.com/hirelens/hirelens/index/mem"
	"github.com/hirelens/hirelens/storage"
	"github.com/hirelens/hirelens/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.ExperienceRepository {
	t.Helper()
	expRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return expRepo
}

func TestNewPipeline(t *testing.T) {
	repo := newTestRepo(t)
	idx := mem.New()
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(repo, idx, provider)
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("with options", func(t *testing.T) {
		p, err := NewPipeline(repo, idx, provider, WithPoolSize(2), WithLogger(nil))
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewPipeline(nil, idx, provider)
		assert.Equal(t, ErrExperienceRepositoryRequired, err)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewPipeline(repo, nil, provider)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(repo, idx, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestIngest(t *testing.T) {
	repo := newTestRepo(t)
	idx := mem.New()
	provider := mock.NewMockProvider()

	p, err := NewPipeline(repo, idx, provider)
	require.NoError(t, err)
	defer p.Release()

	added, err := p.Ingest(context.Background(), &core.Experience{
		CandidateId: 10,
		Position:    "Software Engineer",
		Company:     "Acme",
		Content:     "Built billing services in Go",
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	// Content-derived ID and canonical backfill happen synchronously.
	assert.NotZero(t, added[0].Id)
	assert.Equal(t, "Software Engineer", added[0].PositionCanonical)

	p.Wait()

	// The record is findable in the lexical index.
	hits, err := idx.Search(context.Background(), index.BoolQuery{
		Should: []index.Clause{{
			Type:  index.ClauseTerm,
			Field: index.FieldPositionCanonical,
			Query: "software engineer",
			Boost: 1,
		}},
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, added[0].Id, hits[0].Summary.ExperienceId)

	// The stored record carries a unit-length embedding.
	stored, err := repo.GetExperience(context.Background(), added[0].Id)
	require.NoError(t, err)
	require.NotEmpty(t, stored.Vector)
	assert.InDelta(t, 1.0, magnitude(stored.Vector), 1e-5)
}

func TestIngest_TranslatesNonCanonicalFields(t *testing.T) {
	repo := newTestRepo(t)
	idx := mem.New()
	provider := mock.NewMockProvider()

	p, err := NewPipeline(repo, idx, provider)
	require.NoError(t, err)
	defer p.Release()

	added, err := p.Ingest(context.Background(), &core.Experience{
		CandidateId: 20,
		Position:    "Инженер",
		Content:     "Разработка систем",
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	// The mock transliterates, so canonical fields come out ASCII.
	assert.Equal(t, "Инженер", added[0].Position)
	assert.Equal(t, "Inzhener", added[0].PositionCanonical)
	assert.Equal(t, "Razrabotka sistem", added[0].Content)
}

func TestIngest_TranslationFailureDegrades(t *testing.T) {
	repo := newTestRepo(t)
	idx := mem.New()
	translator := mock.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, text string) (string, error) {
		return "", errors.New("model offline")
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), translator)

	p, err := NewPipeline(repo, idx, provider)
	require.NoError(t, err)
	defer p.Release()

	added, err := p.Ingest(context.Background(), &core.Experience{
		CandidateId: 30,
		Position:    "Инженер",
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "Инженер", added[0].PositionCanonical)
}

func TestIngest_PreservesProvidedFields(t *testing.T) {
	repo := newTestRepo(t)
	idx := mem.New()
	provider := mock.NewMockProvider()

	p, err := NewPipeline(repo, idx, provider)
	require.NoError(t, err)
	defer p.Release()

	vector := NormalizeVector([]float32{1, 2, 3})
	added, err := p.Ingest(context.Background(), &core.Experience{
		CandidateId:       40,
		Position:          "Инженер",
		PositionCanonical: "Engineer",
		Vector:            vector,
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	p.Wait()

	// An already-canonical title is not re-translated, a present vector
	// is not re-embedded.
	assert.Equal(t, "Engineer", added[0].PositionCanonical)
	mockProvider := provider.(*mock.MockProvider)
	assert.Equal(t, 0, mockProvider.GetMockTranslator().CallCount())
	assert.Equal(t, 0, mockProvider.GetMockEmbedder().CallCount())
}

func TestIngest_InvalidExperience(t *testing.T) {
	repo := newTestRepo(t)
	p, err := NewPipeline(repo, mem.New(), mock.NewMockProvider())
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Ingest(context.Background(), &core.Experience{CandidateId: 50})
	assert.Error(t, err)
}

func TestIngest_Empty(t *testing.T) {
	p, err := NewPipeline(newTestRepo(t), mem.New(), mock.NewMockProvider())
	require.NoError(t, err)
	defer p.Release()

	added, err := p.Ingest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestIngest_ReingestIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	p, err := NewPipeline(repo, mem.New(), mock.NewMockProvider())
	require.NoError(t, err)
	defer p.Release()

	exp := func() *core.Experience {
		return &core.Experience{
			CandidateId: 60,
			Position:    "Data Analyst",
			Company:     "Globex",
			StartDate:   time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	first, err := p.Ingest(context.Background(), exp())
	require.NoError(t, err)
	second, err := p.Ingest(context.Background(), exp())
	require.NoError(t, err)

	// Same content hashes to the same ID, so re-ingesting does not
	// duplicate the record.
	assert.Equal(t, first[0].Id, second[0].Id)
	p.Wait()

	all, err := repo.GetExperiencesByCandidate(context.Background(), 60)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
