// Package index defines the lexical search index contract used by the
// tiered retriever. The engine talks to the index through a small bool
// query DSL, so a managed search cluster and the in-repo memory
// implementation are interchangeable.
package index

import (
	"context"

	"github.com/hirelens/hirelens/core"
)

// Queryable field names. These name projections of
// core.ExperienceSummary, not storage columns.
const (
	FieldPositionCanonical = "position_canonical"
	FieldPositionSource    = "position"
	FieldContent           = "content"
)

// ClauseType selects the matching behavior of a clause.
type ClauseType int

const (
	// ClauseTerm matches when the whole field equals the query
	// (case-insensitive).
	ClauseTerm ClauseType = iota
	// ClauseMatch tokenizes both sides and matches on token overlap,
	// optionally fuzzily.
	ClauseMatch
	// ClausePhrase matches when the query tokens appear in the field in
	// order.
	ClausePhrase
)

// Operator controls how ClauseMatch combines query tokens.
type Operator int

const (
	// OperatorOr matches when enough tokens match (see MinimumShouldMatch).
	OperatorOr Operator = iota
	// OperatorAnd requires every query token to match.
	OperatorAnd
)

// Clause is a single scored condition. A document matching the clause
// contributes the clause's Boost to its score.
type Clause struct {
	Type  ClauseType
	Field string
	Query string
	Boost float64

	// Operator applies to ClauseMatch only.
	Operator Operator

	// MinimumShouldMatch is the percentage (0-100) of query tokens that
	// must match for OperatorOr. Zero means any single token suffices.
	MinimumShouldMatch int

	// Fuzzy enables edit-distance tolerant token matching for
	// ClauseMatch. The allowed distance scales with token length (AUTO):
	// under 3 runes exact, 3-5 runes one edit, above two edits. The
	// first PrefixLength runes must always match exactly.
	Fuzzy        bool
	PrefixLength int
}

// BoolQuery is a disjunction of clauses with an exclusion list.
// A document's score is the highest boost among its matching clauses.
type BoolQuery struct {
	Should     []Clause
	ExcludeIDs []core.ID

	// Size limits the number of hits returned (0 means no limit).
	Size int
}

// Hit is one scored document returned from a query.
type Hit struct {
	Summary core.ExperienceSummary
	Score   float64
}

// SearchIndex is the lexical index consumed by the tiered retriever.
// Implementations must be thread-safe for concurrent use.
type SearchIndex interface {
	// Index upserts documents, keyed by their experience ID.
	Index(ctx context.Context, docs ...core.ExperienceSummary) error

	// Delete removes documents by experience ID. Missing IDs are ignored.
	Delete(ctx context.Context, ids ...core.ID) error

	// Search evaluates a bool query. Hits are ordered by score
	// descending, then years of experience descending with missing
	// durations last.
	// Returns ErrUnavailable when the index cannot serve queries.
	Search(ctx context.Context, q BoolQuery) ([]Hit, error)

	// Count returns the number of indexed documents. Doubles as a
	// health probe.
	Count(ctx context.Context) (int, error)
}
