package hirelens

import (
	"context"
	"testing"

	"github.com/hirelens/hirelens/ai/mock"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase("", WithInMemoryStorage(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		db := newTestDatabase(t)

		// Verify components are initialized
		assert.NotNil(t, db.ExperienceRepository())
		assert.NotNil(t, db.TranslationRepository())
		assert.NotNil(t, db.SearchIndex())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("on-disk database", func(t *testing.T) {
		db, err := NewDatabase(t.TempDir(), WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, db)
		assert.NoError(t, db.Close())
	})
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db := newTestDatabase(t)

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create engine", func(t *testing.T) {
		engine, err := db.NewEngine()
		require.NoError(t, err)
		require.NotNil(t, engine)
	})
}

func TestDatabase_IngestThenSearch(t *testing.T) {
	db := newTestDatabase(t)

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(),
		&core.Experience{CandidateId: 1, Position: "Software Engineer", Company: "Acme"},
		&core.Experience{CandidateId: 2, Position: "Accountant", Company: "Globex"},
	)
	require.NoError(t, err)
	pipeline.Wait()

	engine, err := db.NewEngine()
	require.NoError(t, err)

	results, err := engine.Search(context.Background(), "Software Engineer", "",
		search.Options{Method: search.MethodLexical})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(1), results[0].CandidateId)
}
