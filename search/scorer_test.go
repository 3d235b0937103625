package search

import (
	"testing"

	"github.com/hirelens/hirelens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fusedMatch(id, candidate core.ID, tier core.Tier, fusedScore, years float64) core.FusedMatch {
	return core.FusedMatch{
		Summary: core.ExperienceSummary{
			ExperienceId: id,
			CandidateId:  candidate,
			Years:        years,
		},
		Tier:       tier,
		FusedScore: fusedScore,
	}
}

func TestDurationMultiplier(t *testing.T) {
	tests := []struct {
		years float64
		want  float64
	}{
		{0, 1.0},
		{1, 1.0},
		{1.5, 1.2},
		{2, 1.2},
		{2.5, 1.4},
		{3.5, 1.6},
		{4.5, 1.8},
		{5, 1.8},
		{7, 2.0},
		{30, 2.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, durationMultiplier(tt.years), "years=%v", tt.years)
	}
}

func TestExperienceScore_Bands(t *testing.T) {
	// Band floors keep tiers strictly separated regardless of the
	// multiplier: a max-duration similar hit never reaches the relevant
	// band, and a max-duration relevant hit never reaches exact.
	maxSimilar := experienceScore(fusedMatch(1, 1, core.TierSimilar, 1.0, 30))
	minRelevant := experienceScore(fusedMatch(2, 2, core.TierRelevant, 0, 0))
	maxRelevant := experienceScore(fusedMatch(3, 3, core.TierRelevant, 1.0, 30))
	minExact := experienceScore(fusedMatch(4, 4, core.TierExact, 0, 0))

	assert.Less(t, maxSimilar, minRelevant)
	assert.Less(t, maxRelevant, minExact)
}

func TestExperienceScore_Values(t *testing.T) {
	// exact, fused 0.5, 3 years: (100 + 0.005) × (1 + 0.3×1.4)
	got := experienceScore(fusedMatch(1, 1, core.TierExact, 0.5, 3))
	assert.InDelta(t, 100.005*1.42, got, 1e-9)

	// semantic_only falls in the catch-all band.
	got = experienceScore(fusedMatch(2, 2, core.TierSemanticOnly, 0.9, 1))
	assert.InDelta(t, (1+0.9/10000)*1.1, got, 1e-9)
}

func TestScoreCandidates_ExactBoostDominates(t *testing.T) {
	fused := []core.FusedMatch{
		// Candidate 20: three solid relevant experiences.
		fusedMatch(1, 20, core.TierRelevant, 0.9, 10),
		fusedMatch(2, 20, core.TierRelevant, 0.8, 10),
		fusedMatch(3, 20, core.TierRelevant, 0.7, 10),
		// Candidate 10: a single short exact experience.
		fusedMatch(4, 10, core.TierExact, 0.1, 0.5),
	}

	results := ScoreCandidates(fused, 0, 10)
	require.Len(t, results, 2)

	assert.Equal(t, core.ID(10), results[0].CandidateId)
	assert.Greater(t, results[0].FinalScore, 1000.0)
	assert.Equal(t, core.ID(20), results[1].CandidateId)
}

func TestScoreCandidates_SupportingExperiences(t *testing.T) {
	fused := []core.FusedMatch{
		fusedMatch(1, 10, core.TierRelevant, 0, 0.5),
		fusedMatch(2, 10, core.TierRelevant, 0, 0.5),
		fusedMatch(3, 10, core.TierRelevant, 0, 0.5),
		fusedMatch(4, 10, core.TierRelevant, 0, 0.5), // fourth does not count
	}

	results := ScoreCandidates(fused, 0, 10)
	require.Len(t, results, 1)

	// Each experience scores (10 + 0) × 1.2 = 12; final is the best
	// plus a tenth of the next two.
	assert.InDelta(t, 12+0.1*(12+12), results[0].FinalScore, 1e-9)
	assert.Len(t, results[0].Experiences, 4)
}

func TestScoreCandidates_ThresholdIsStrict(t *testing.T) {
	fused := []core.FusedMatch{
		fusedMatch(1, 10, core.TierRelevant, 0, 0.5), // scores exactly 12
		fusedMatch(2, 20, core.TierRelevant, 0.9, 10),
	}

	results := ScoreCandidates(fused, 12, 10)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(20), results[0].CandidateId)
}

func TestScoreCandidates_ThresholdPrunesListNotScore(t *testing.T) {
	// The final score is computed over every experience; the threshold
	// only trims the returned list afterwards.
	fused := []core.FusedMatch{
		fusedMatch(1, 10, core.TierExact, 1.0, 1),  // scores (100 + 0.01) × 1.3 = 130.013
		fusedMatch(2, 10, core.TierRelevant, 0, 1), // scores (10 + 0) × 1.2 = 12
	}

	results := ScoreCandidates(fused, 15, 10)
	require.Len(t, results, 1)

	// Boost + best + a tenth of the below-threshold supporting score.
	assert.InDelta(t, 1000+130.013+0.1*12, results[0].FinalScore, 1e-9)
	require.Len(t, results[0].Experiences, 1)
	assert.Equal(t, core.ID(1), results[0].Experiences[0].Summary.ExperienceId)
}

func TestScoreCandidates_ThresholdMonotonic(t *testing.T) {
	fused := []core.FusedMatch{
		fusedMatch(1, 10, core.TierExact, 0.9, 3),
		fusedMatch(2, 10, core.TierRelevant, 0.5, 1),
		fusedMatch(3, 20, core.TierRelevant, 0.9, 5),
		fusedMatch(4, 30, core.TierSimilar, 0.9, 2),
		fusedMatch(5, 40, core.TierSimilar, 0.1, 0.5),
	}

	prev := len(ScoreCandidates(fused, 0, 10))
	for _, threshold := range []float64{1, 2, 12, 15, 130, 1000} {
		got := len(ScoreCandidates(fused, threshold, 10))
		assert.LessOrEqual(t, got, prev, "threshold=%v", threshold)
		prev = got
	}
}

func TestScoreCandidates_EmptyCandidatesDropped(t *testing.T) {
	fused := []core.FusedMatch{
		fusedMatch(1, 10, core.TierSimilar, 0.1, 1),
	}

	results := ScoreCandidates(fused, 1000, 10)
	assert.Empty(t, results)
}

func TestScoreCandidates_StableTieBreak(t *testing.T) {
	fused := []core.FusedMatch{
		fusedMatch(1, 30, core.TierRelevant, 0.5, 2),
		fusedMatch(2, 40, core.TierRelevant, 0.5, 2),
	}

	results := ScoreCandidates(fused, 0, 10)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(30), results[0].CandidateId)
	assert.Equal(t, core.ID(40), results[1].CandidateId)
}

func TestScoreCandidates_Limit(t *testing.T) {
	fused := []core.FusedMatch{
		fusedMatch(1, 10, core.TierExact, 0.9, 5),
		fusedMatch(2, 20, core.TierRelevant, 0.9, 5),
		fusedMatch(3, 30, core.TierSimilar, 0.9, 5),
	}

	results := ScoreCandidates(fused, 0, 2)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(10), results[0].CandidateId)
	assert.Equal(t, core.ID(20), results[1].CandidateId)
}

func TestScoreCandidates_ExperiencesOrderedByScore(t *testing.T) {
	fused := []core.FusedMatch{
		fusedMatch(1, 10, core.TierSimilar, 0.9, 1),
		fusedMatch(2, 10, core.TierExact, 0.9, 1),
		fusedMatch(3, 10, core.TierRelevant, 0.9, 1),
	}

	results := ScoreCandidates(fused, 0, 10)
	require.Len(t, results, 1)
	exps := results[0].Experiences
	require.Len(t, exps, 3)
	assert.Equal(t, core.ID(2), exps[0].Summary.ExperienceId)
	assert.Equal(t, core.ID(3), exps[1].Summary.ExperienceId)
	assert.Equal(t, core.ID(1), exps[2].Summary.ExperienceId)
}
