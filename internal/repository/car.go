// Package repository provides data access layer implementations for the payments API.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benx421/carmarket/internal/db"
	"github.com/benx421/carmarket/internal/models"
	"github.com/google/uuid"
)

// CarRepository is the read-only view of the listings catalog
type CarRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
}

// carRepository implements CarRepository
type carRepository struct {
	db db.DBTX
}

// NewCarRepository creates a new CarRepository
func NewCarRepository(database db.DBTX) CarRepository {
	return &carRepository{db: database}
}

// FindByID retrieves a car listing by its UUID
func (r *carRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	query := `
		SELECT id, seller_id, make, model, year, price, created_at, updated_at
		FROM cars
		WHERE id = $1
	`

	var car models.Car
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&car.ID,
		&car.SellerID,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.Price,
		&car.CreatedAt,
		&car.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("car %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find car by id: %w", err)
	}

	return &car, nil
}
