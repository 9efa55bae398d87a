package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardano-pool-sentinel/internal/storage"
)

func TestScanProgressStore_SetAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScanProgressStore(pool)

	require.NoError(t, store.SetLastHeight(ctx, 12345))

	height, err := store.GetLastHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), height)
}

func TestScanProgressStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewScanProgressStore(pool).GetLastHeight(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestScanProgressStore_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScanProgressStore(pool)

	require.NoError(t, store.SetLastHeight(ctx, 100))
	require.NoError(t, store.SetLastHeight(ctx, 200))

	height, err := store.GetLastHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(200), height)
}

func TestScanProgressStore_NegativeHeight(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	err := NewScanProgressStore(pool).SetLastHeight(context.Background(), -1)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
