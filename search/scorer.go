package search

import (
	"sort"

	"github.com/hirelens/hirelens/core"
)

// Score bands per tier. The bands are disjoint regardless of the
// duration multiplier: an exact experience always outscores a relevant
// one, which always outscores the rest.
const (
	exactBandFloor    = 100.0
	relevantBandFloor = 10.0
	otherBandFloor    = 1.0

	// A candidate whose best experience lands in the exact band gets a
	// discrete boost so no pile of weaker experiences can outrank them.
	exactCandidateBoost = 1000.0

	// Weight of the second and third best experiences in the final score.
	supportingWeight = 0.1
)

// durationMultiplier steps up with years of experience, capping at 2x.
func durationMultiplier(years float64) float64 {
	switch {
	case years <= 1:
		return 1.0
	case years <= 2:
		return 1.2
	case years <= 3:
		return 1.4
	case years <= 4:
		return 1.6
	case years <= 5:
		return 1.8
	default:
		return 2.0
	}
}

// experienceScore maps a fused match into its tier's score band and
// applies the duration multiplier.
func experienceScore(m core.FusedMatch) float64 {
	mult := durationMultiplier(m.Summary.Years)
	switch m.Tier {
	case core.TierExact:
		return (exactBandFloor + m.FusedScore/100) * (1 + 0.3*mult)
	case core.TierRelevant:
		return (relevantBandFloor + m.FusedScore/1000) * (1 + 0.2*mult)
	default:
		return (otherBandFloor + m.FusedScore/10000) * (1 + 0.1*mult)
	}
}

// ScoreCandidates groups fused matches by candidate and produces the
// final ranked candidate list.
//
// Per candidate: finalScore = best experience score, plus a discrete
// boost when the best is exact-band, plus a tenth of the second and
// third best — computed over every experience the candidate has. The
// threshold then prunes the returned experience list; a candidate whose
// list empties is dropped entirely. Output is sorted by final score
// descending with stable first-seen tie-breaks and truncated to limit.
func ScoreCandidates(fused []core.FusedMatch, threshold float64, limit int) []core.CandidateScore {
	type bucket struct {
		candidateID core.ID
		experiences []core.ScoredExperience
	}

	buckets := make(map[core.ID]*bucket)
	order := make([]core.ID, 0)

	for _, m := range fused {
		b, ok := buckets[m.Summary.CandidateId]
		if !ok {
			b = &bucket{candidateID: m.Summary.CandidateId}
			buckets[m.Summary.CandidateId] = b
			order = append(order, m.Summary.CandidateId)
		}
		b.experiences = append(b.experiences, core.ScoredExperience{
			Summary:    m.Summary,
			Tier:       m.Tier,
			FusedScore: m.FusedScore,
			Score:      experienceScore(m),
		})
	}

	results := make([]core.CandidateScore, 0, len(buckets))
	for _, id := range order {
		b := buckets[id]
		sort.SliceStable(b.experiences, func(i, j int) bool {
			return b.experiences[i].Score > b.experiences[j].Score
		})

		final := b.experiences[0].Score
		if final >= exactBandFloor {
			final += exactCandidateBoost
		}
		for i := 1; i < len(b.experiences) && i < 3; i++ {
			final += supportingWeight * b.experiences[i].Score
		}

		kept := make([]core.ScoredExperience, 0, len(b.experiences))
		for _, exp := range b.experiences {
			if exp.Score > threshold {
				kept = append(kept, exp)
			}
		}
		if len(kept) == 0 {
			continue
		}

		results = append(results, core.CandidateScore{
			CandidateId: id,
			FinalScore:  final,
			Experiences: kept,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
