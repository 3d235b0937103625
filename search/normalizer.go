// Copyright 2025 Hirelens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hirelens/hirelens/ai"
	"github.com/hirelens/hirelens/core"
)

// Normalizer turns raw position/description input into a core.Query:
// canonical-language text, a compact lexical query string, and the
// query embedding. Translation and embedding failures degrade rather
// than fail the search.
type Normalizer struct {
	translator ai.Translator
	embedder   ai.Embedder
	logger     *slog.Logger
}

// NewNormalizer creates a query normalizer. Translator and embedder may
// each be nil; the corresponding step is then skipped.
func NewNormalizer(translator ai.Translator, embedder ai.Embedder, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		translator: translator,
		embedder:   embedder,
		logger:     logger,
	}
}

// Normalize builds the full query, including the embedding vector.
// Returns ErrEmptyQuery when both inputs are blank.
func (n *Normalizer) Normalize(ctx context.Context, position, description string) (core.Query, error) {
	query, err := n.normalize(ctx, position, description)
	if err != nil {
		return core.Query{}, err
	}

	if n.embedder != nil && query.CanonicalText != "" {
		vector, err := n.embedder.EmbedText(ctx, query.CanonicalText)
		if err != nil {
			// Semantic retrieval is skipped downstream; lexical
			// retrieval still works.
			n.logger.Warn("query embedding failed", "error", err)
		} else {
			query.Vector = vector
		}
	}

	return query, nil
}

// NormalizeLexical builds the query without generating an embedding.
// Used for lexical-only searches where the vector would be wasted work.
func (n *Normalizer) NormalizeLexical(ctx context.Context, position, description string) (core.Query, error) {
	return n.normalize(ctx, position, description)
}

func (n *Normalizer) normalize(ctx context.Context, position, description string) (core.Query, error) {
	position = strings.TrimSpace(position)
	description = strings.TrimSpace(description)
	if position == "" && description == "" {
		return core.Query{}, ErrEmptyQuery
	}

	query := core.Query{
		RawPosition:       position,
		RawDescription:    description,
		SourceIsCanonical: core.IsCanonicalLanguage(position + " " + description),
	}

	canonicalPosition := n.translate(ctx, position)
	canonicalDescription := n.translate(ctx, description)

	query.CanonicalText = structuredText(canonicalPosition, canonicalDescription)
	query.CanonicalQuery = buildSearchQuery(canonicalPosition, canonicalDescription)
	if query.CanonicalQuery == "" {
		// Single-character or all-noise input; fall back to the
		// canonical position so retrieval has something to match.
		query.CanonicalQuery = strings.ToLower(canonicalPosition)
	}

	return query, nil
}

// translate converts text into the canonical language, degrading to the
// original text when the translator is absent or fails.
func (n *Normalizer) translate(ctx context.Context, text string) string {
	if text == "" || n.translator == nil || core.IsCanonicalLanguage(text) {
		return text
	}
	translated, err := n.translator.Translate(ctx, text)
	if err != nil {
		n.logger.Warn("query translation failed, using original text", "error", err)
		return text
	}
	return translated
}

// structuredText builds the labeled text the embedder sees. Empty parts
// are omitted so a position-only query embeds cleanly.
func structuredText(position, description string) string {
	parts := make([]string, 0, 2)
	if position != "" {
		parts = append(parts, "Position: "+position)
	}
	if description != "" {
		parts = append(parts, "Description: "+description)
	}
	return strings.Join(parts, "\n")
}
