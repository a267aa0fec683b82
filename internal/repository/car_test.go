package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/benx421/carmarket/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarRepository_FindByID(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewCarRepository(database)

	t.Run("existing car", func(t *testing.T) {
		car, err := repo.FindByID(context.Background(), testCarID)
		require.NoError(t, err)

		assert.Equal(t, "Toyota", car.Make)
		assert.Equal(t, "Corolla", car.Model)
		assert.Equal(t, testSellerID, car.SellerID)
		assert.True(t, decimal.RequireFromString("500000").Equal(car.Price), "price mismatch: %s", car.Price)
	})

	t.Run("unknown car", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})
}
