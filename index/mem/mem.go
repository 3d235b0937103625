// Package mem provides an in-memory index.SearchIndex implementation.
// It backs tests, the seeder and single-process deployments; the clause
// semantics mirror what a managed search cluster would do for the same
// bool queries.
package mem

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/index"
)

// Index is an in-memory lexical index over experience summaries.
// Safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	docs map[core.ID]core.ExperienceSummary
}

var _ index.SearchIndex = (*Index)(nil)

// New creates an empty index.
func New() *Index {
	return &Index{docs: make(map[core.ID]core.ExperienceSummary)}
}

// Index upserts documents, keyed by their experience ID.
func (ix *Index) Index(ctx context.Context, docs ...core.ExperienceSummary) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, doc := range docs {
		ix.docs[doc.ExperienceId] = doc
	}
	return nil
}

// Delete removes documents by experience ID. Missing IDs are ignored.
func (ix *Index) Delete(ctx context.Context, ids ...core.ID) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, id := range ids {
		delete(ix.docs, id)
	}
	return nil
}

// Count returns the number of indexed documents.
func (ix *Index) Count(ctx context.Context) (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs), nil
}

// Search evaluates a bool query. A document's score is the highest
// boost among the clauses it matches.
func (ix *Index) Search(ctx context.Context, q index.BoolQuery) ([]index.Hit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	excluded := make(map[core.ID]struct{}, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	var hits []index.Hit
	for id, doc := range ix.docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, skip := excluded[id]; skip {
			continue
		}

		score := 0.0
		matched := false
		for _, clause := range q.Should {
			if !clauseMatches(clause, doc) {
				continue
			}
			matched = true
			if clause.Boost > score {
				score = clause.Boost
			}
		}
		if matched {
			hits = append(hits, index.Hit{Summary: doc, Score: score})
		}
	}

	sortHits(hits)

	if q.Size > 0 && len(hits) > q.Size {
		hits = hits[:q.Size]
	}
	return hits, nil
}

// sortHits orders by score descending, then years descending with
// missing durations last, then by ID for determinism.
func sortHits(hits []index.Hit) {
	slices.SortFunc(hits, func(a, b index.Hit) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		aMissing := a.Summary.Years <= 0
		bMissing := b.Summary.Years <= 0
		switch {
		case aMissing && !bMissing:
			return 1
		case !aMissing && bMissing:
			return -1
		case !aMissing && !bMissing && a.Summary.Years != b.Summary.Years:
			if a.Summary.Years > b.Summary.Years {
				return -1
			}
			return 1
		}
		if a.Summary.ExperienceId < b.Summary.ExperienceId {
			return -1
		}
		if a.Summary.ExperienceId > b.Summary.ExperienceId {
			return 1
		}
		return 0
	})
}

func fieldValue(doc core.ExperienceSummary, field string) string {
	switch field {
	case index.FieldPositionCanonical:
		return doc.Canonical
	case index.FieldPositionSource:
		return doc.Position
	case index.FieldContent:
		return doc.Content
	default:
		return ""
	}
}

func clauseMatches(clause index.Clause, doc core.ExperienceSummary) bool {
	value := fieldValue(doc, clause.Field)
	if value == "" || clause.Query == "" {
		return false
	}

	switch clause.Type {
	case index.ClauseTerm:
		return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(clause.Query))
	case index.ClausePhrase:
		return phraseMatches(clause.Query, value)
	case index.ClauseMatch:
		return tokensMatch(clause, value)
	default:
		return false
	}
}

// phraseMatches reports whether the query tokens appear in the field in
// order, adjacent.
func phraseMatches(query, value string) bool {
	qTokens := tokenize(query)
	vTokens := tokenize(value)
	if len(qTokens) == 0 || len(qTokens) > len(vTokens) {
		return false
	}
	for start := 0; start+len(qTokens) <= len(vTokens); start++ {
		found := true
		for i, qt := range qTokens {
			if vTokens[start+i] != qt {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}

func tokensMatch(clause index.Clause, value string) bool {
	qTokens := tokenize(clause.Query)
	if len(qTokens) == 0 {
		return false
	}
	vTokens := tokenize(value)

	matchedCount := 0
	for _, qt := range qTokens {
		if tokenPresent(qt, vTokens, clause.Fuzzy, clause.PrefixLength) {
			matchedCount++
		} else if clause.Operator == index.OperatorAnd {
			return false
		}
	}

	if clause.Operator == index.OperatorAnd {
		return true
	}

	required := 1
	if clause.MinimumShouldMatch > 0 {
		required = int(math.Ceil(float64(len(qTokens)) * float64(clause.MinimumShouldMatch) / 100))
	}
	return matchedCount >= required
}

func tokenPresent(query string, tokens []string, fuzzy bool, prefixLen int) bool {
	for _, tok := range tokens {
		if tok == query {
			return true
		}
		if fuzzy && fuzzyEqual(query, tok, prefixLen) {
			return true
		}
	}
	return false
}

// tokenize lower-cases and splits on anything that is not a letter or
// digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
