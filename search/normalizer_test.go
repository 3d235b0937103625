package search

import (
	"context"
	"errors"
	"testing"

	"github.com/hirelens/hirelens/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyQuery(t *testing.T) {
	n := NewNormalizer(mock.NewMockTranslator(), mock.NewMockEmbedder(), nil)

	_, err := n.Normalize(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = n.Normalize(context.Background(), "   ", "\t")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestNormalize_CanonicalInputSkipsTranslation(t *testing.T) {
	translator := mock.NewMockTranslator()
	n := NewNormalizer(translator, mock.NewMockEmbedder(), nil)

	query, err := n.Normalize(context.Background(), "Software Engineer", "Python and Docker experience")
	require.NoError(t, err)

	assert.Equal(t, 0, translator.CallCount())
	assert.True(t, query.SourceIsCanonical)
	assert.Equal(t, "software engineer python docker", query.CanonicalQuery)
	assert.Equal(t, "Position: Software Engineer\nDescription: Python and Docker experience", query.CanonicalText)
	assert.NotEmpty(t, query.Vector)
}

func TestNormalize_TranslatesNonCanonicalInput(t *testing.T) {
	translator := mock.NewMockTranslator()
	n := NewNormalizer(translator, mock.NewMockEmbedder(), nil)

	query, err := n.Normalize(context.Background(), "Инженер", "Опыт работы с Python")
	require.NoError(t, err)

	assert.Equal(t, 2, translator.CallCount())
	assert.False(t, query.SourceIsCanonical)
	// The mock transliterates, so the canonical text is ASCII.
	assert.Equal(t, "Position: Inzhener\nDescription: Opyt raboty s Python", query.CanonicalText)
	assert.Contains(t, query.CanonicalQuery, "inzhener")
	assert.Contains(t, query.CanonicalQuery, "python")
}

func TestNormalize_TranslationFailureDegrades(t *testing.T) {
	translator := mock.NewMockTranslator()
	translator.TranslateFunc = func(ctx context.Context, text string) (string, error) {
		return "", errors.New("model offline")
	}
	n := NewNormalizer(translator, mock.NewMockEmbedder(), nil)

	query, err := n.Normalize(context.Background(), "Инженер", "")
	require.NoError(t, err)
	assert.Equal(t, "Position: Инженер", query.CanonicalText)
	assert.Equal(t, "инженер", query.CanonicalQuery)
}

func TestNormalize_EmbeddingFailureDegrades(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}
	n := NewNormalizer(mock.NewMockTranslator(), embedder, nil)

	query, err := n.Normalize(context.Background(), "Data Analyst", "")
	require.NoError(t, err)
	assert.Nil(t, query.Vector)
	assert.Equal(t, "data analyst", query.CanonicalQuery)
}

func TestNormalizeLexical_SkipsEmbedding(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	n := NewNormalizer(mock.NewMockTranslator(), embedder, nil)

	query, err := n.NormalizeLexical(context.Background(), "Software Engineer", "")
	require.NoError(t, err)

	assert.Equal(t, 0, embedder.CallCount())
	assert.Nil(t, query.Vector)
	assert.Equal(t, "software engineer", query.CanonicalQuery)
}

func TestNormalize_PositionOnlyStructuredText(t *testing.T) {
	n := NewNormalizer(nil, nil, nil)

	query, err := n.NormalizeLexical(context.Background(), "Backend Developer", "")
	require.NoError(t, err)
	assert.Equal(t, "Position: Backend Developer", query.CanonicalText)

	query, err = n.NormalizeLexical(context.Background(), "", "SQL reporting pipelines")
	require.NoError(t, err)
	assert.Equal(t, "Description: SQL reporting pipelines", query.CanonicalText)
}
