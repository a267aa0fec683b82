package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/benx421/carmarket/internal/config"
	"github.com/benx421/carmarket/internal/metrics"
	"github.com/benx421/carmarket/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	testCarID    = uuid.MustParse("5c8e2a4b-7f1d-4e9a-b3c6-1a2d3e4f5a6b")
	testSellerID = uuid.MustParse("9b2f7c1e-0d4a-4c36-8f0e-3d2a9e1b7c55")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Gateway: config.GatewayConfig{
			Mode:        config.GatewayModeSandbox,
			Name:        "chapa",
			Currency:    "ETB",
			CallbackURL: "http://localhost:8080/payments/callback",
			AppBaseURL:  "http://localhost:3000",
		},
		Payments: config.PaymentsConfig{
			MaxAmount:              1000000,
			AmountTolerance:        100,
			AmountPolicy:           config.AmountPolicyWarn,
			ReferencePrefix:        "CAR",
			ReferenceMaxAttempts:   3,
			ListLimit:              20,
			PlaceholderEmailDomain: "mailinator.com",
		},
	}
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func testCar() *models.Car {
	return &models.Car{
		ID:       testCarID,
		SellerID: testSellerID,
		Make:     "Toyota",
		Model:    "Corolla",
		Year:     2019,
		Price:    decimal.NewFromInt(500000),
	}
}

func testBuyer() *models.Principal {
	return &models.Principal{
		ID:    uuid.MustParse("e1d2c3b4-a596-4788-99aa-bbccddeeff00"),
		Email: "abebe@example.com",
		Name:  "Abebe Bikila",
		Role:  "buyer",
	}
}

// memoryPaymentRepository is an in-memory PaymentRepository enforcing the
// same unique reference and conditional update rules as Postgres.
type memoryPaymentRepository struct {
	byID  map[uuid.UUID]*models.PaymentTransaction
	byRef map[string]uuid.UUID
	mu    sync.Mutex
}

func newMemoryPaymentRepository() *memoryPaymentRepository {
	return &memoryPaymentRepository{
		byID:  make(map[uuid.UUID]*models.PaymentTransaction),
		byRef: make(map[string]uuid.UUID),
	}
}

func (r *memoryPaymentRepository) Create(_ context.Context, payment *models.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byRef[payment.TransactionRef]; exists {
		return models.ErrDuplicateReference
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	payment.CreatedAt = time.Now().UTC()
	payment.UpdatedAt = payment.CreatedAt

	stored := *payment
	r.byID[payment.ID] = &stored
	r.byRef[payment.TransactionRef] = payment.ID
	return nil
}

func (r *memoryPaymentRepository) FindByID(_ context.Context, id uuid.UUID) (*models.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *memoryPaymentRepository) FindByRef(ctx context.Context, ref string) (*models.PaymentTransaction, error) {
	r.mu.Lock()
	id, ok := r.byRef[ref]
	r.mu.Unlock()

	if !ok {
		return nil, models.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *memoryPaymentRepository) Update(_ context.Context, id uuid.UUID, patch models.PaymentPatch) (*models.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.ExpectStatus != nil && p.Status != *patch.ExpectStatus {
		return nil, models.ErrStatusConflict
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Metadata != nil {
		p.Metadata = *patch.Metadata
	}
	p.UpdatedAt = time.Now().UTC()

	out := *p
	return &out, nil
}

func (r *memoryPaymentRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID, gateway string, limit int) ([]models.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.PaymentTransaction
	for _, p := range r.byID {
		if p.BuyerID == buyerID && p.Gateway == gateway {
			out = append(out, *p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryPaymentRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
