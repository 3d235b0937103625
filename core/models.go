package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or assigned by the caller.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Tier is the confidence bucket assigned to a match.
// The integer order is the ranking order: a higher tier always outranks
// a lower one regardless of how the underlying scores compare.
type Tier int

const (
	// TierUnknown is a defensive fallback, never intentionally produced.
	TierUnknown Tier = iota
	// TierSemanticOnly marks matches found only by vector similarity.
	TierSemanticOnly
	// TierSimilar marks broad lexical matches (content, partial titles).
	TierSimilar
	// TierRelevant marks strong lexical matches on title fields.
	TierRelevant
	// TierExact marks exact, fuzzy-exact or phrase matches on the title.
	TierExact
)

// Rank returns the ordering rank of the tier (higher wins).
func (t Tier) Rank() int {
	return int(t)
}

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierRelevant:
		return "relevant"
	case TierSimilar:
		return "similar"
	case TierSemanticOnly:
		return "semantic_only"
	default:
		return "unknown"
	}
}

// MatchQuality is an informational sub-label for exact-tier matches.
// It never affects tier assignment or ordering.
type MatchQuality string

const (
	QualityPerfect MatchQuality = "perfect"
	QualityFuzzy   MatchQuality = "fuzzy"
	QualityPartial MatchQuality = "partial"
)

// daysPerYear converts an experience duration to fractional years.
const daysPerYear = 365.25

// Experience is a single work-experience record for a candidate.
// One record exists per candidate per job stint.
type Experience struct {
	Id                ID
	CandidateId       ID
	Position          string // position title in the source language
	PositionCanonical string // position title in the canonical language
	Company           string
	Content           string // free-text description, canonical language
	StartDate         time.Time
	EndDate           time.Time // zero means the stint runs to present
	Vector            []float32 // unit-normalized embedding (populated by ingestion)
	InsertedAt        time.Time
	UpdatedAt         time.Time
}

// Years derives the duration of the stint in fractional years.
// A zero end date means the stint runs to present. Never negative.
func (e *Experience) Years() float64 {
	if e.StartDate.IsZero() {
		return 0
	}
	end := e.EndDate
	if end.IsZero() {
		end = time.Now().UTC()
	}
	years := end.Sub(e.StartDate).Hours() / 24 / daysPerYear
	if years < 0 {
		return 0
	}
	return years
}

// Summary projects the fields carried through retrieval and scoring.
func (e *Experience) Summary() ExperienceSummary {
	return ExperienceSummary{
		ExperienceId: e.Id,
		CandidateId:  e.CandidateId,
		Position:     e.Position,
		Canonical:    e.PositionCanonical,
		Company:      e.Company,
		Content:      e.Content,
		Years:        e.Years(),
	}
}

// ExperienceSummary is the per-hit projection of an experience record
// that flows through the retrievers, fusion and the candidate scorer.
type ExperienceSummary struct {
	ExperienceId ID
	CandidateId  ID
	Position     string
	Canonical    string
	Company      string
	Content      string
	Years        float64
}

// Query is the normalized form of a search request.
// Built once by the normalizer and treated as immutable afterwards.
type Query struct {
	RawPosition    string
	RawDescription string
	// CanonicalQuery is the cleaned, canonical-language string used for
	// lexical retrieval.
	CanonicalQuery string
	// CanonicalText is the structured canonical text used for embedding
	// generation.
	CanonicalText string
	// Vector is the query embedding, nil when generation failed or was
	// skipped; semantic retrieval is then skipped by the caller.
	Vector []float32
	// SourceIsCanonical records the language-heuristic decision so the
	// retriever never re-translates already-canonical input.
	SourceIsCanonical bool
}

// LexicalMatch is one hit from the tiered lexical retriever.
// An experience id appears in at most one tier per retrieval run.
type LexicalMatch struct {
	Summary ExperienceSummary
	Tier    Tier
	Quality MatchQuality // informational, exact tier only
	Score   float64      // raw retrieval score, >= 0
}

// SemanticMatch is one hit from the semantic retriever.
// Similarity is pre-normalized to [0,1]; 1.0 is most similar.
type SemanticMatch struct {
	Summary    ExperienceSummary
	Similarity float64
}

// FusedMatch is a lexical/semantic match pair blended into one score.
type FusedMatch struct {
	Summary    ExperienceSummary
	Tier       Tier
	FusedScore float64
	// Component scores, kept for observability.
	LexicalNorm float64
	Semantic    float64
}

// ScoredExperience is one experience's contribution to a candidate score.
type ScoredExperience struct {
	Summary    ExperienceSummary
	Tier       Tier
	FusedScore float64
	// Score is the banded experience score after the duration multiplier.
	Score float64
}

// CandidateScore is one candidate's entry in the final ranked list.
// Experiences are ordered by score descending and only contain entries
// above the caller's threshold.
type CandidateScore struct {
	CandidateId ID
	FinalScore  float64
	Experiences []ScoredExperience
}
