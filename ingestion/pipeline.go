package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/hirelens/hirelens/ai"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/index"
	"github.com/hirelens/hirelens/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates the ingestion and processing of experience records.
// It manages concurrent embedding generation and lexical indexing.
type Pipeline struct {
	experiences   storage.ExperienceRepository
	index         index.SearchIndex
	translator    ai.Translator
	embedder      ai.Embedder
	embeddingPool *ants.Pool
	indexPool     *ants.Pool
	logger        *slog.Logger

	pending sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pools
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}
		if p.indexPool != nil {
			p.indexPool.Release()
		}

		// Create new pools
		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		indexPool, err := ants.NewPool(size)
		if err != nil {
			embeddingPool.Release()
			return err
		}

		p.embeddingPool = embeddingPool
		p.indexPool = indexPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithTranslator overrides the provider's translator, typically with a
// caching wrapper.
func WithTranslator(translator ai.Translator) Option {
	return func(p *Pipeline) error {
		p.translator = translator
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	experiences storage.ExperienceRepository,
	idx index.SearchIndex,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if experiences == nil {
		return nil, ErrExperienceRepositoryRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	indexPool, err := ants.NewPool(poolSize)
	if err != nil {
		embeddingPool.Release()
		return nil, err
	}

	p := &Pipeline{
		experiences:   experiences,
		index:         idx,
		translator:    provider.Translator(),
		embedder:      provider.Embedder(),
		embeddingPool: embeddingPool,
		indexPool:     indexPool,
		logger:        slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest backfills canonical-language fields, persists the experiences
// and processes them asynchronously: embedding generation and lexical
// indexing run on worker pools. Errors during async processing are
// logged but do not fail the ingestion.
// Returns the records with generated IDs and timestamps populated.
func (p *Pipeline) Ingest(ctx context.Context, experiences ...*core.Experience) ([]*core.Experience, error) {
	for _, exp := range experiences {
		p.backfillCanonical(ctx, exp)
	}

	added, err := p.experiences.AddExperiences(ctx, experiences...)
	if err != nil {
		return nil, err
	}

	if len(added) == 0 {
		return added, nil
	}

	docs := make([]core.ExperienceSummary, len(added))
	for i, exp := range added {
		docs[i] = exp.Summary()
	}

	p.submit(p.indexPool, func() {
		if err := p.index.Index(context.Background(), docs...); err != nil {
			p.logger.Error("error indexing experiences", "err", err)
		}
	})

	p.submit(p.embeddingPool, func() {
		if err := p.embed(context.Background(), added); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
		}
	})

	return added, nil
}

// backfillCanonical fills canonical-language position and content,
// degrading to the source text when translation fails.
func (p *Pipeline) backfillCanonical(ctx context.Context, exp *core.Experience) {
	if exp == nil {
		return
	}
	if exp.PositionCanonical == "" {
		exp.PositionCanonical = p.translate(ctx, exp.Position)
	}
	exp.Content = p.translate(ctx, exp.Content)
}

func (p *Pipeline) translate(ctx context.Context, text string) string {
	if text == "" || p.translator == nil || core.IsCanonicalLanguage(text) {
		return text
	}
	translated, err := p.translator.Translate(ctx, text)
	if err != nil {
		p.logger.Warn("translation failed, keeping source text", "err", err)
		return text
	}
	return translated
}

// embed generates unit-normalized embeddings for experiences that lack
// one and persists them.
func (p *Pipeline) embed(ctx context.Context, experiences []*core.Experience) error {
	updated := make([]*core.Experience, 0, len(experiences))
	for _, exp := range experiences {
		if len(exp.Vector) > 0 {
			continue
		}
		text := DocumentText(exp)
		if text == "" {
			continue
		}
		vector, err := p.embedder.EmbedText(ctx, text)
		if err != nil {
			p.logger.Warn("embedding failed", "experience", uint64(exp.Id), "err", err)
			continue
		}
		exp.Vector = NormalizeVector(vector)
		updated = append(updated, exp)
	}

	if len(updated) == 0 {
		return nil
	}
	_, err := p.experiences.UpdateExperiences(ctx, updated...)
	return err
}

// DocumentText builds the labeled canonical text an experience is
// embedded from, mirroring the query side.
func DocumentText(exp *core.Experience) string {
	parts := make([]string, 0, 2)
	if exp.PositionCanonical != "" {
		parts = append(parts, "Position: "+exp.PositionCanonical)
	}
	if exp.Content != "" {
		parts = append(parts, "Description: "+exp.Content)
	}
	return strings.Join(parts, "\n")
}

// submit schedules fn on pool, tracking it so Wait can block on
// completion. A pool that rejects the task runs nothing.
func (p *Pipeline) submit(pool *ants.Pool, fn func()) {
	p.pending.Add(1)
	err := pool.Submit(func() {
		defer p.pending.Done()
		fn()
	})
	if err != nil {
		p.pending.Done()
		p.logger.Error("error submitting ingestion task", "err", err)
	}
}

// Wait blocks until all submitted async processing has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
	if p.indexPool != nil {
		p.indexPool.Release()
	}
}
