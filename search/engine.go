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
	"sync"
	"time"

	"github.com/hirelens/hirelens/ai"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/index"
	"github.com/hirelens/hirelens/storage"
)

// Method selects which retrievers run for a search.
type Method string

const (
	// MethodLexical runs only tiered lexical retrieval. No embedding is
	// generated for the query.
	MethodLexical Method = "lexical"
	// MethodSemantic runs only vector-similarity retrieval.
	MethodSemantic Method = "semantic"
	// MethodHybrid runs both retrievers concurrently and fuses them.
	MethodHybrid Method = "hybrid"
)

// ParseMethod maps a user-supplied method name to a Method.
// Unrecognized names fall back to lexical retrieval.
func ParseMethod(s string) Method {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodSemantic:
		return MethodSemantic
	case MethodHybrid:
		return MethodHybrid
	default:
		return MethodLexical
	}
}

// Filters narrows fused matches before candidate scoring.
type Filters struct {
	// MinYears drops experiences with fewer years than this.
	MinYears float64
	// Companies keeps only experiences at one of these companies
	// (case-insensitive). Empty means no company filter.
	Companies []string
}

// Options controls a single search request.
type Options struct {
	Method Method
	// Limit caps the number of returned candidates. Non-positive means
	// the default of 20.
	Limit int
	// ScoreThreshold drops experiences scoring at or below it.
	ScoreThreshold float64
	Filters        Filters
}

const (
	defaultCandidateLimit = 20

	// One candidate can hold several experience records, so lexical
	// retrieval fetches a wider pool than the candidate limit.
	lexicalPoolFactor = 3

	defaultLexicalTimeout  = 5 * time.Second
	defaultSemanticTimeout = 3 * time.Second
)

// Engine is the ranking engine: it normalizes the query, runs the
// retrievers concurrently, fuses their scores and aggregates them
// into a ranked candidate list.
type Engine struct {
	normalizer *Normalizer
	lexical    *TieredRetriever
	semantic   *SemanticRetriever
	index      index.SearchIndex
	logger     *slog.Logger

	lexicalTimeout  time.Duration
	semanticTimeout time.Duration

	translator ai.Translator
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithTranslator overrides the provider's translator, typically with a
// caching wrapper.
func WithTranslator(translator ai.Translator) Option {
	return func(e *Engine) error {
		e.translator = translator
		return nil
	}
}

// WithLexicalTimeout sets the per-request lexical retrieval timeout.
func WithLexicalTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d > 0 {
			e.lexicalTimeout = d
		}
		return nil
	}
}

// WithSemanticTimeout sets the per-request semantic retrieval timeout.
func WithSemanticTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d > 0 {
			e.semanticTimeout = d
		}
		return nil
	}
}

// NewEngine creates a ranking engine over the given index, store and
// AI provider.
func NewEngine(
	idx index.SearchIndex,
	store storage.Repository,
	provider ai.Provider,
	opts ...Option,
) (*Engine, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		index:           idx,
		logger:          slog.Default(),
		lexicalTimeout:  defaultLexicalTimeout,
		semanticTimeout: defaultSemanticTimeout,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.translator == nil {
		e.translator = provider.Translator()
	}
	e.normalizer = NewNormalizer(e.translator, provider.Embedder(), e.logger)

	var err error
	if e.lexical, err = NewTieredRetriever(idx, e.logger); err != nil {
		return nil, err
	}
	if e.semantic, err = NewSemanticRetriever(store, e.logger); err != nil {
		return nil, err
	}

	return e, nil
}

// Search ranks candidates for the given position and description.
// Returns ErrEmptyQuery when both inputs are blank.
func (e *Engine) Search(ctx context.Context, position, description string, opts Options) ([]core.CandidateScore, error) {
	return e.SearchWithMonitor(ctx, position, description, opts, nil)
}

// SearchWithMonitor ranks candidates with per-stage monitoring.
// The monitor receives callbacks at each stage of the pipeline.
func (e *Engine) SearchWithMonitor(
	ctx context.Context,
	position, description string,
	opts Options,
	monitor Monitor,
) ([]core.CandidateScore, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(position, description)

	method := ParseMethod(string(opts.Method))
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	query, err := e.normalizeFor(ctx, method, position, description)
	if err != nil {
		return nil, err
	}
	monitor.AfterNormalize(query)

	lexicalMatches, semanticMatches, err := e.retrieve(ctx, method, query, limit)
	if err != nil {
		return nil, err
	}
	monitor.AfterLexical(lexicalMatches)
	monitor.AfterSemantic(semanticMatches)

	fused := Fuse(lexicalMatches, semanticMatches)
	fused = applyFilters(fused, opts.Filters)
	monitor.AfterFusion(fused)

	results := ScoreCandidates(fused, opts.ScoreThreshold, limit)
	monitor.Finish(results)

	e.logger.Debug("search complete",
		"method", method,
		"lexical_matches", len(lexicalMatches),
		"semantic_matches", len(semanticMatches),
		"candidates", len(results))

	return results, nil
}

// normalizeFor builds the query, skipping embedding generation when the
// method never uses the vector.
func (e *Engine) normalizeFor(ctx context.Context, method Method, position, description string) (core.Query, error) {
	if method == MethodLexical {
		return e.normalizer.NormalizeLexical(ctx, position, description)
	}
	return e.normalizer.Normalize(ctx, position, description)
}

// retrieve fans out to the retrievers the method calls for, each on its
// own goroutine with an independent timeout. A retriever that times out
// contributes an empty result set; only an unavailable index on a
// lexical-only search fails the request.
func (e *Engine) retrieve(
	ctx context.Context,
	method Method,
	query core.Query,
	limit int,
) ([]core.LexicalMatch, []core.SemanticMatch, error) {
	var (
		wg sync.WaitGroup

		lexicalMatches  []core.LexicalMatch
		semanticMatches []core.SemanticMatch
		lexicalErr      error
		semanticErr     error
	)

	if method != MethodSemantic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lexCtx, cancel := context.WithTimeout(ctx, e.lexicalTimeout)
			defer cancel()
			lexicalMatches, lexicalErr = e.lexical.Retrieve(lexCtx, query.CanonicalQuery, limit*lexicalPoolFactor)
		}()
	}

	if method != MethodLexical {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semCtx, cancel := context.WithTimeout(ctx, e.semanticTimeout)
			defer cancel()
			semanticMatches, semanticErr = e.semantic.Retrieve(semCtx, query.Vector, 0)
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if lexicalErr != nil {
		// A dead index fails a lexical-only search; a hybrid search
		// degrades to its semantic side.
		if method != MethodHybrid {
			return nil, nil, lexicalErr
		}
		e.logger.Warn("lexical retrieval degraded", "error", lexicalErr)
		lexicalMatches = nil
	}
	if semanticErr != nil {
		e.logger.Warn("semantic retrieval degraded", "error", semanticErr)
		semanticMatches = nil
	}

	return lexicalMatches, semanticMatches, nil
}

// applyFilters drops fused matches outside the requested filters.
func applyFilters(fused []core.FusedMatch, f Filters) []core.FusedMatch {
	if f.MinYears <= 0 && len(f.Companies) == 0 {
		return fused
	}

	kept := fused[:0:0]
	for _, m := range fused {
		if f.MinYears > 0 && m.Summary.Years < f.MinYears {
			continue
		}
		if len(f.Companies) > 0 && !companyMatches(m.Summary.Company, f.Companies) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func companyMatches(company string, companies []string) bool {
	for _, c := range companies {
		if strings.EqualFold(strings.TrimSpace(c), company) {
			return true
		}
	}
	return false
}

// Ping reports whether the engine's index can serve queries.
func (e *Engine) Ping(ctx context.Context) error {
	_, err := e.index.Count(ctx)
	return err
}
