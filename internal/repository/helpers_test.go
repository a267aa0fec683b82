package repository

import (
	"context"
	"io"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/benx421/carmarket/internal/config"
	"github.com/benx421/carmarket/internal/db"
	"github.com/benx421/carmarket/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	testSellerID = uuid.MustParse("9b2f7c1e-0d4a-4c36-8f0e-3d2a9e1b7c55")
	testCarID    = uuid.MustParse("5c8e2a4b-7f1d-4e9a-b3c6-1a2d3e4f5a6b")
	testBuyerID  = uuid.MustParse("e1d2c3b4-a596-4788-99aa-bbccddeeff00")
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		t.Skipf("postgres not reachable, skipping repository test: %v", err)
	}

	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return database
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		log.Printf("failed to close test database: %v", err)
	}
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	tables := []string{"payment_transactions", "idempotency_keys"}
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}

	_, err := database.ExecContext(context.Background(), `
		DELETE FROM cars;
		INSERT INTO cars (id, seller_id, make, model, year, price) VALUES
			('5c8e2a4b-7f1d-4e9a-b3c6-1a2d3e4f5a6b', '9b2f7c1e-0d4a-4c36-8f0e-3d2a9e1b7c55', 'Toyota', 'Corolla', 2019, 500000.00),
			('6d9f3b5c-8a2e-4fab-84d7-2b3e4f5a6b7c', '9b2f7c1e-0d4a-4c36-8f0e-3d2a9e1b7c55', 'Hyundai', 'Tucson', 2021, 950000.50);
	`)
	if err != nil {
		t.Fatalf("failed to reset cars: %v", err)
	}
}

func newTestPayment(ref string) *models.PaymentTransaction {
	return &models.PaymentTransaction{
		BuyerID:        testBuyerID,
		CarID:          testCarID,
		Amount:         decimal.RequireFromString("500000"),
		Currency:       "ETB",
		TransactionRef: ref,
		Gateway:        "chapa",
	}
}
