package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benx421/carmarket/internal/db"
	"github.com/benx421/carmarket/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const paymentColumns = `
	id, buyer_id, car_id, amount, currency, transaction_ref,
	status, gateway, metadata, created_at, updated_at
`

// PaymentRepository defines the interface for payment transaction storage.
// It does not enforce status transitions; callers use PaymentPatch.ExpectStatus
// to make an update conditional.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.PaymentTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentTransaction, error)
	FindByRef(ctx context.Context, ref string) (*models.PaymentTransaction, error)
	Update(ctx context.Context, id uuid.UUID, patch models.PaymentPatch) (*models.PaymentTransaction, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, gateway string, limit int) ([]models.PaymentTransaction, error)
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db db.DBTX
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(database db.DBTX) PaymentRepository {
	return &paymentRepository{db: database}
}

// Create inserts a new payment. A transaction_ref collision is reported as
// models.ErrDuplicateReference so the caller can regenerate and retry.
func (r *paymentRepository) Create(ctx context.Context, payment *models.PaymentTransaction) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}

	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = payment.CreatedAt

	query := `
		INSERT INTO payment_transactions (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.BuyerID,
		payment.CarID,
		payment.Amount,
		payment.Currency,
		payment.TransactionRef,
		payment.Status,
		payment.Gateway,
		payment.Metadata,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "transaction_ref") {
			return models.ErrDuplicateReference
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment by its UUID
func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment by id: %w", err)
	}

	return payment, nil
}

// FindByRef retrieves a payment by its external transaction reference
func (r *paymentRepository) FindByRef(ctx context.Context, ref string) (*models.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE transaction_ref = $1`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %q: %w", ref, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment by reference: %w", err)
	}

	return payment, nil
}

// Update applies a partial mutation and refreshes updated_at. With
// patch.ExpectStatus set, a row in any other status yields
// models.ErrStatusConflict and is left untouched.
func (r *paymentRepository) Update(ctx context.Context, id uuid.UUID, patch models.PaymentPatch) (*models.PaymentTransaction, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.Metadata != nil {
		args = append(args, *patch.Metadata)
		sets = append(sets, fmt.Sprintf("metadata = $%d", len(args)))
	}

	where := "id = $1"
	if patch.ExpectStatus != nil {
		args = append(args, *patch.ExpectStatus)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query := `
		UPDATE payment_transactions
		SET ` + strings.Join(sets, ", ") + `
		WHERE ` + where + `
		RETURNING ` + paymentColumns

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if patch.ExpectStatus == nil {
			return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
		}
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, models.ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	return payment, nil
}

// ListByBuyer returns the buyer's most recent payments for a gateway
func (r *paymentRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, gateway string, limit int) ([]models.PaymentTransaction, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_transactions
		WHERE buyer_id = $1 AND gateway = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, buyerID, gateway, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer func() {
		_ = rows.Close() //nolint:errcheck // close error surfaces through rows.Err
	}()

	payments := make([]models.PaymentTransaction, 0, limit)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	err := row.Scan(
		&payment.ID,
		&payment.BuyerID,
		&payment.CarID,
		&payment.Amount,
		&payment.Currency,
		&payment.TransactionRef,
		&payment.Status,
		&payment.Gateway,
		&payment.Metadata,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func isUniqueViolation(err error, column string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code.Name() != "unique_violation" {
		return false
	}
	return strings.Contains(pqErr.Constraint, column)
}
