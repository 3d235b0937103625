package search

import (
	"context"
	"testing"

	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/index"
	"github.com/hirelens/hirelens/index/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingIndex simulates a dead search backend.
type failingIndex struct{}

func (f *failingIndex) Index(ctx context.Context, docs ...core.ExperienceSummary) error {
	return index.ErrUnavailable
}

func (f *failingIndex) Delete(ctx context.Context, ids ...core.ID) error {
	return index.ErrUnavailable
}

func (f *failingIndex) Search(ctx context.Context, q index.BoolQuery) ([]index.Hit, error) {
	return nil, index.ErrUnavailable
}

func (f *failingIndex) Count(ctx context.Context) (int, error) {
	return 0, index.ErrUnavailable
}

func seedIndex(t *testing.T) *mem.Index {
	t.Helper()
	idx := mem.New()
	docs := []core.ExperienceSummary{
		{ExperienceId: 1, CandidateId: 10, Position: "Software Engineer", Canonical: "Software Engineer", Years: 3},
		{ExperienceId: 2, CandidateId: 20, Position: "Старший инженер", Canonical: "Senior Software Engineer", Years: 6},
		{ExperienceId: 3, CandidateId: 30, Position: "Инженер", Canonical: "Softwere Enginer", Years: 2},
		{ExperienceId: 4, CandidateId: 40, Position: "Software Developer", Canonical: "Software Developer", Years: 4},
		{ExperienceId: 5, CandidateId: 50, Position: "Технический писатель", Canonical: "Technical Writer",
			Content: "Writes software engineering onboarding guides", Years: 1},
	}
	require.NoError(t, idx.Index(context.Background(), docs...))
	return idx
}

func TestNewTieredRetriever(t *testing.T) {
	_, err := NewTieredRetriever(nil, nil)
	assert.Equal(t, ErrIndexRequired, err)

	r, err := NewTieredRetriever(mem.New(), nil)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestRetrieve_TierAssignment(t *testing.T) {
	r, err := NewTieredRetriever(seedIndex(t), nil)
	require.NoError(t, err)

	matches, err := r.Retrieve(context.Background(), "software engineer", 10)
	require.NoError(t, err)
	require.Len(t, matches, 5)

	byID := make(map[core.ID]core.LexicalMatch)
	for _, m := range matches {
		byID[m.Summary.ExperienceId] = m
	}

	// Whole-field equality on the canonical title.
	assert.Equal(t, core.TierExact, byID[1].Tier)
	assert.Equal(t, core.QualityPerfect, byID[1].Quality)

	// Phrase match inside a longer title.
	assert.Equal(t, core.TierExact, byID[2].Tier)
	assert.Equal(t, core.QualityPerfect, byID[2].Quality)

	// Typo-tolerant token match.
	assert.Equal(t, core.TierExact, byID[3].Tier)
	assert.Equal(t, core.QualityFuzzy, byID[3].Quality)

	// Content mention only.
	assert.Equal(t, core.TierRelevant, byID[5].Tier)

	// Half the query tokens in the title.
	assert.Equal(t, core.TierSimilar, byID[4].Tier)
}

func TestRetrieve_MergeOrder(t *testing.T) {
	r, err := NewTieredRetriever(seedIndex(t), nil)
	require.NoError(t, err)

	matches, err := r.Retrieve(context.Background(), "software engineer", 10)
	require.NoError(t, err)
	require.Len(t, matches, 5)

	// Tiers are contiguous and descending regardless of raw scores.
	for i := 1; i < len(matches); i++ {
		prev, cur := matches[i-1], matches[i]
		assert.GreaterOrEqual(t, prev.Tier.Rank(), cur.Tier.Rank())
		if prev.Tier == cur.Tier {
			assert.GreaterOrEqual(t, prev.Score, cur.Score)
		}
	}

	// The strongest exact hit leads.
	assert.Equal(t, core.ID(1), matches[0].Summary.ExperienceId)
}

func TestRetrieve_TierExclusivity(t *testing.T) {
	r, err := NewTieredRetriever(seedIndex(t), nil)
	require.NoError(t, err)

	matches, err := r.Retrieve(context.Background(), "software engineer", 10)
	require.NoError(t, err)

	seen := make(map[core.ID]int)
	for _, m := range matches {
		seen[m.Summary.ExperienceId]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "experience %d appears in more than one tier", id)
	}
}

func TestRetrieve_Limit(t *testing.T) {
	r, err := NewTieredRetriever(seedIndex(t), nil)
	require.NoError(t, err)

	matches, err := r.Retrieve(context.Background(), "software engineer", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, core.TierExact, matches[0].Tier)
	assert.Equal(t, core.TierExact, matches[1].Tier)
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	r, err := NewTieredRetriever(seedIndex(t), nil)
	require.NoError(t, err)

	matches, err := r.Retrieve(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRetrieve_IndexUnavailable(t *testing.T) {
	r, err := NewTieredRetriever(&failingIndex{}, nil)
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "software engineer", 10)
	assert.ErrorIs(t, err, ErrIndexUnavailable)
	assert.ErrorIs(t, err, index.ErrUnavailable)
}

func TestRetrieve_NoMatches(t *testing.T) {
	r, err := NewTieredRetriever(seedIndex(t), nil)
	require.NoError(t, err)

	matches, err := r.Retrieve(context.Background(), "quantum chemist", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
