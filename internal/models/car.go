package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Car is the catalog view of a listing needed to take payment for it
type Car struct {
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
	Make      string          `db:"make"`
	Model     string          `db:"model"`
	Price     decimal.Decimal `db:"price"`
	Year      int             `db:"year"`
	ID        uuid.UUID       `db:"id"`
	SellerID  uuid.UUID       `db:"seller_id"`
}
