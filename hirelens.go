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


package hirelens

import (
	"log/slog"

	"github.com/hirelens/hirelens/ai"
	"github.com/hirelens/hirelens/ai/openai"
	"github.com/hirelens/hirelens/index"
	"github.com/hirelens/hirelens/index/mem"
	"github.com/hirelens/hirelens/ingestion"
	"github.com/hirelens/hirelens/search"
	"github.com/hirelens/hirelens/storage"
	"github.com/hirelens/hirelens/storage/badger"
)

// Database bundles the storage backend, lexical index, AI provider and
// translation cache behind one handle, and hands out the engine and
// pipeline wired against them.
type Database struct {
	backend         *badger.Backend
	experienceRepo  storage.ExperienceRepository
	translationRepo storage.TranslationRepository
	searchIndex     index.SearchIndex
	provider        ai.Provider
	translator      ai.Translator
	logger          *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig    *ai.Config
	searchIndex index.SearchIndex
	provider    ai.Provider
	inMemory    bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithSearchIndex replaces the default in-memory lexical index, e.g.
// with a client for a managed search cluster.
func WithSearchIndex(idx index.SearchIndex) DatabaseOption {
	return func(o *databaseOptions) {
		o.searchIndex = idx
	}
}

// WithProvider replaces the default OpenAI-compatible provider.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all storage in memory. Intended for tests
// and throwaway environments.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the storage backend at filePath and wires up the
// repositories, translation cache and AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	experienceRepo := badger.NewExperienceRepository(backend)
	translationRepo := badger.NewTranslationRepository(backend)

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	searchIndex := options.searchIndex
	if searchIndex == nil {
		searchIndex = mem.New()
	}

	// All translation flows through the cache: an in-memory memo on top
	// of the badger-backed store.
	translator := ai.NewCachedTranslator(provider.Translator(),
		ai.WithCache(translationRepo),
		ai.WithTTL(options.aiConfig.TranslationTTL),
		ai.WithMaxInput(options.aiConfig.MaxInputChars),
	)

	return &Database{
		backend:         backend,
		experienceRepo:  experienceRepo,
		translationRepo: translationRepo,
		searchIndex:     searchIndex,
		provider:        provider,
		translator:      translator,
		logger:          slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ExperienceRepository returns the experience store.
func (db *Database) ExperienceRepository() storage.ExperienceRepository {
	return db.experienceRepo
}

// TranslationRepository returns the persistent translation cache.
func (db *Database) TranslationRepository() storage.TranslationRepository {
	return db.translationRepo
}

// SearchIndex returns the lexical index.
func (db *Database) SearchIndex() index.SearchIndex {
	return db.searchIndex
}

// NewIngestionPipeline creates a pipeline over this database's store,
// index and cached translator.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithTranslator(db.translator)}, opts...)
	return ingestion.NewPipeline(db.experienceRepo, db.searchIndex, db.provider, opts...)
}

// NewEngine creates a ranking engine over this database's index, store
// and cached translator.
func (db *Database) NewEngine(opts ...search.Option) (*search.Engine, error) {
	opts = append([]search.Option{search.WithTranslator(db.translator)}, opts...)
	return search.NewEngine(db.searchIndex, db.experienceRepo, db.provider, opts...)
}
