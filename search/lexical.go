package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/index"
)

// Boost weights per pass. The index scores a hit with the highest
// boost among its matching clauses, so the weights double as a match
// quality signal.
const (
	boostExactTerm   = 100
	boostExactPhrase = 90
	boostExactFuzzy  = 80

	boostRelevantCanonicalAll     = 2000
	boostRelevantCanonicalPartial = 1000
	boostRelevantSourceAll        = 500
	boostRelevantContent          = 100

	boostSimilarContent          = 100
	boostSimilarCanonicalPartial = 50
	boostSimilarSourcePartial    = 25
)

const (
	// The exact pass over-fetches and keeps only the strongest hits.
	exactPassFetch = 50
	exactPassKeep  = 20

	fuzzyPrefixLength = 1

	relevantMinimumShouldMatch = 75
	similarMinimumShouldMatch  = 50
)

// Quality thresholds within the exact pass. Informational only.
const (
	perfectQualityFloor = 90
	fuzzyQualityFloor   = 60
)

// tierPriority imposes the cross-tier merge order. The gaps are wide
// enough that no in-tier score can cross a tier boundary.
var tierPriority = map[core.Tier]float64{
	core.TierExact:    1e6,
	core.TierRelevant: 1e5,
	core.TierSimilar:  1e4,
	core.TierUnknown:  1e3,
}

// TieredRetriever classifies lexical matches into mutually exclusive
// tiers by running three successive index queries, each excluding the
// ids already claimed by an earlier pass.
type TieredRetriever struct {
	index  index.SearchIndex
	logger *slog.Logger
}

// NewTieredRetriever creates a tiered lexical retriever.
func NewTieredRetriever(idx index.SearchIndex, logger *slog.Logger) (*TieredRetriever, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TieredRetriever{index: idx, logger: logger}, nil
}

// Retrieve runs the three-pass retrieval for canonicalQuery and returns
// up to limit matches ordered by (tier, score) descending.
//
// A pass that fails contributes nothing; only an unavailable index on
// the first pass fails the whole call, with ErrIndexUnavailable.
func (r *TieredRetriever) Retrieve(ctx context.Context, canonicalQuery string, limit int) ([]core.LexicalMatch, error) {
	canonicalQuery = strings.TrimSpace(canonicalQuery)
	if canonicalQuery == "" || limit <= 0 {
		return nil, nil
	}

	matches := make([]core.LexicalMatch, 0, limit)
	claimed := make(map[core.ID]struct{})

	exact, err := r.exactPass(ctx, canonicalQuery)
	if err != nil {
		if errors.Is(err, index.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
		}
		r.logger.Warn("exact pass failed", "error", err)
	}
	matches = claim(matches, claimed, exact)

	relevant, err := r.relevantPass(ctx, canonicalQuery, limit, excludeList(claimed))
	if err != nil {
		r.logger.Warn("relevant pass failed", "error", err)
	}
	matches = claim(matches, claimed, relevant)

	similar, err := r.similarPass(ctx, canonicalQuery, limit, excludeList(claimed))
	if err != nil {
		r.logger.Warn("similar pass failed", "error", err)
	}
	matches = claim(matches, claimed, similar)

	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := tierPriority[matches[i].Tier], tierPriority[matches[j].Tier]
		if pi != pj {
			return pi > pj
		}
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// exactPass fetches the strongest title matches: field equality on the
// query's casing variants, fuzzy token match, and phrase match.
func (r *TieredRetriever) exactPass(ctx context.Context, query string) ([]core.LexicalMatch, error) {
	should := make([]index.Clause, 0, 5)
	for _, variant := range casingVariants(query) {
		should = append(should, index.Clause{
			Type:  index.ClauseTerm,
			Field: index.FieldPositionCanonical,
			Query: variant,
			Boost: boostExactTerm,
		})
	}
	should = append(should,
		index.Clause{
			Type:  index.ClausePhrase,
			Field: index.FieldPositionCanonical,
			Query: query,
			Boost: boostExactPhrase,
		},
		index.Clause{
			Type:         index.ClauseMatch,
			Field:        index.FieldPositionCanonical,
			Query:        query,
			Boost:        boostExactFuzzy,
			Operator:     index.OperatorAnd,
			Fuzzy:        true,
			PrefixLength: fuzzyPrefixLength,
		},
	)

	hits, err := r.index.Search(ctx, index.BoolQuery{Should: should, Size: exactPassFetch})
	if err != nil {
		return nil, err
	}
	if len(hits) > exactPassKeep {
		hits = hits[:exactPassKeep]
	}

	matches := make([]core.LexicalMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, core.LexicalMatch{
			Summary: hit.Summary,
			Tier:    core.TierExact,
			Quality: exactQuality(hit.Score),
			Score:   hit.Score,
		})
	}
	return matches, nil
}

func (r *TieredRetriever) relevantPass(ctx context.Context, query string, limit int, exclude []core.ID) ([]core.LexicalMatch, error) {
	q := index.BoolQuery{
		Should: []index.Clause{
			{
				Type:     index.ClauseMatch,
				Field:    index.FieldPositionCanonical,
				Query:    query,
				Boost:    boostRelevantCanonicalAll,
				Operator: index.OperatorAnd,
			},
			{
				Type:               index.ClauseMatch,
				Field:              index.FieldPositionCanonical,
				Query:              query,
				Boost:              boostRelevantCanonicalPartial,
				MinimumShouldMatch: relevantMinimumShouldMatch,
			},
			{
				Type:     index.ClauseMatch,
				Field:    index.FieldPositionSource,
				Query:    query,
				Boost:    boostRelevantSourceAll,
				Operator: index.OperatorAnd,
			},
			{
				Type:  index.ClauseMatch,
				Field: index.FieldContent,
				Query: query,
				Boost: boostRelevantContent,
			},
		},
		ExcludeIDs: exclude,
		Size:       limit,
	}
	return r.tierPass(ctx, q, core.TierRelevant)
}

func (r *TieredRetriever) similarPass(ctx context.Context, query string, limit int, exclude []core.ID) ([]core.LexicalMatch, error) {
	q := index.BoolQuery{
		Should: []index.Clause{
			{
				Type:  index.ClauseMatch,
				Field: index.FieldContent,
				Query: query,
				Boost: boostSimilarContent,
			},
			{
				Type:               index.ClauseMatch,
				Field:              index.FieldPositionCanonical,
				Query:              query,
				Boost:              boostSimilarCanonicalPartial,
				MinimumShouldMatch: similarMinimumShouldMatch,
			},
			{
				Type:               index.ClauseMatch,
				Field:              index.FieldPositionSource,
				Query:              query,
				Boost:              boostSimilarSourcePartial,
				MinimumShouldMatch: similarMinimumShouldMatch,
			},
		},
		ExcludeIDs: exclude,
		Size:       limit,
	}
	return r.tierPass(ctx, q, core.TierSimilar)
}

func (r *TieredRetriever) tierPass(ctx context.Context, q index.BoolQuery, tier core.Tier) ([]core.LexicalMatch, error) {
	hits, err := r.index.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	matches := make([]core.LexicalMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, core.LexicalMatch{
			Summary: hit.Summary,
			Tier:    tier,
			Score:   hit.Score,
		})
	}
	return matches, nil
}

// claim appends matches whose experience id has not been claimed by an
// earlier pass. The exclude lists make duplicates unlikely, but a pass
// that ignores them must not break tier exclusivity.
func claim(matches []core.LexicalMatch, claimed map[core.ID]struct{}, pass []core.LexicalMatch) []core.LexicalMatch {
	for _, m := range pass {
		if _, ok := claimed[m.Summary.ExperienceId]; ok {
			continue
		}
		claimed[m.Summary.ExperienceId] = struct{}{}
		matches = append(matches, m)
	}
	return matches
}

func excludeList(claimed map[core.ID]struct{}) []core.ID {
	ids := make([]core.ID, 0, len(claimed))
	for id := range claimed {
		ids = append(ids, id)
	}
	return ids
}

// casingVariants returns the query as given plus its Title-Case and
// UPPER forms, deduplicated.
func casingVariants(query string) []string {
	variants := []string{query}
	for _, v := range []string{titleCase(query), strings.ToUpper(query)} {
		if v != query && v != variants[len(variants)-1] {
			variants = append(variants, v)
		}
	}
	return variants
}

func exactQuality(score float64) core.MatchQuality {
	switch {
	case score >= perfectQualityFloor:
		return core.QualityPerfect
	case score >= fuzzyQualityFloor:
		return core.QualityFuzzy
	default:
		return core.QualityPartial
	}
}
