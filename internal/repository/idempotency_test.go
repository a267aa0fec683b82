package repository

import (
	"context"
	"testing"
	"time"

	"github.com/benx421/carmarket/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepository_StoreAndGet(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	stored := &models.IdempotencyKey{
		Key:            testBuyerID.String() + ":checkout-1",
		RequestPath:    "/payments",
		ResponseStatus: 201,
		ResponseBody:   `{"transactionRef":"CAR_ddeeff00_1760680000000_abc123"}`,
	}
	require.NoError(t, repo.Store(ctx, stored))
	assert.False(t, stored.CreatedAt.IsZero(), "created_at should be defaulted")

	got, err := repo.Get(ctx, stored.Key, "/payments")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stored.ResponseStatus, got.ResponseStatus)
	assert.Equal(t, stored.ResponseBody, got.ResponseBody)

	missing, err := repo.Get(ctx, "unknown", "/payments")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIdempotencyRepository_FirstResponseWins(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	first := &models.IdempotencyKey{Key: "k", RequestPath: "/payments", ResponseStatus: 201, ResponseBody: `{"n":1}`}
	second := &models.IdempotencyKey{Key: "k", RequestPath: "/payments", ResponseStatus: 201, ResponseBody: `{"n":2}`}

	require.NoError(t, repo.Store(ctx, first))
	require.NoError(t, repo.Store(ctx, second))

	got, err := repo.Get(ctx, "k", "/payments")
	require.NoError(t, err)
	assert.Equal(t, `{"n":1}`, got.ResponseBody)
}

func TestIdempotencyRepository_DeleteOlderThan(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{
		Key: "stale", RequestPath: "/payments", ResponseStatus: 201, ResponseBody: "{}",
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{
		Key: "fresh", RequestPath: "/payments", ResponseStatus: 201, ResponseBody: "{}",
		CreatedAt: now.Add(-time.Hour),
	}))

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	stale, err := repo.Get(ctx, "stale", "/payments")
	require.NoError(t, err)
	assert.Nil(t, stale)

	fresh, err := repo.Get(ctx, "fresh", "/payments")
	require.NoError(t, err)
	assert.NotNil(t, fresh)
}
