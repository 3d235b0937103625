package badger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationCache_MissThenHit(t *testing.T) {
	_, trRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, found, err := trRepo.GetTranslation(ctx, "инженер")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, trRepo.PutTranslation(ctx, "инженер", "engineer", time.Hour))

	got, found, err := trRepo.GetTranslation(ctx, "инженер")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "engineer", got)
}

func TestTranslationCache_Overwrite(t *testing.T) {
	_, trRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, trRepo.PutTranslation(ctx, "инженер", "engineer", 0))
	require.NoError(t, trRepo.PutTranslation(ctx, "инженер", "software engineer", 0))

	got, found, err := trRepo.GetTranslation(ctx, "инженер")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "software engineer", got)
}

func TestTranslationCache_LongKeys(t *testing.T) {
	_, trRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	long := strings.Repeat("очень длинное описание вакансии ", 200)

	require.NoError(t, trRepo.PutTranslation(ctx, long, "short", time.Hour))

	got, found, err := trRepo.GetTranslation(ctx, long)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "short", got)
}

func TestTranslationCache_Expiry(t *testing.T) {
	_, trRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, trRepo.PutTranslation(ctx, "инженер", "engineer", time.Second))

	time.Sleep(1100 * time.Millisecond)

	_, found, err := trRepo.GetTranslation(ctx, "инженер")
	require.NoError(t, err)
	assert.False(t, found, "expired entry must be a miss")
}
