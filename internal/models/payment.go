package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a payment attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether s -> target is a forward transition.
// Only pending payments move, and only to completed or failed; cancelled is
// reached through an administrative path outside this service.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	if s != PaymentStatusPending {
		return false
	}
	return target == PaymentStatusCompleted || target == PaymentStatusFailed
}

// PaymentTransaction is the audit record of one purchase attempt
type PaymentTransaction struct {
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	Metadata       PaymentMetadata `db:"metadata"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	TransactionRef string          `db:"transaction_ref"`
	Status         PaymentStatus   `db:"status"`
	Gateway        string          `db:"gateway"`
	ID             uuid.UUID       `db:"id"`
	BuyerID        uuid.UUID       `db:"buyer_id"`
	CarID          uuid.UUID       `db:"car_id"`
}

// PaymentMetadata holds the car snapshot taken at creation and the provider
// artifacts gathered during initialization and verification. Fields are
// populated progressively as the payment moves through its lifecycle.
type PaymentMetadata struct {
	VerifiedAt          *time.Time      `json:"verifiedAt,omitempty"`
	CarMake             string          `json:"carMake,omitempty"`
	CarModel            string          `json:"carModel,omitempty"`
	SellerID            string          `json:"sellerId,omitempty"`
	CheckoutURL         string          `json:"checkoutUrl,omitempty"`
	InitError           string          `json:"initError,omitempty"`
	FailureReason       string          `json:"failureReason,omitempty"`
	ReservationToken    string          `json:"reservationToken,omitempty"`
	VerificationPayload json.RawMessage `json:"verificationPayload,omitempty"`
}

// Value implements driver.Valuer so metadata is stored as JSONB. lib/pq sends
// []byte parameters as bytea, so the document is passed as text.
func (m PaymentMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment metadata: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB metadata
func (m *PaymentMetadata) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = PaymentMetadata{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", src)
	}

	var out PaymentMetadata
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to unmarshal payment metadata: %w", err)
	}
	*m = out
	return nil
}

// PaymentPatch is a partial update of a payment. Nil fields are left as is.
// When ExpectStatus is set the update only applies if the stored status
// still equals it.
type PaymentPatch struct {
	Status       *PaymentStatus
	Metadata     *PaymentMetadata
	ExpectStatus *PaymentStatus
}
