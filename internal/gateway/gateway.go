// Package gateway isolates calls to the external payment provider.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Client initializes and verifies hosted-checkout transactions
type Client interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, txRef string) (*Outcome, error)
}

// InitializeRequest is the checkout request sent to the provider
type InitializeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	PhoneNumber string          `json:"phone_number,omitempty"`
	TxRef       string          `json:"tx_ref"`
	CallbackURL string          `json:"callback_url"`
	ReturnURL   string          `json:"return_url"`
	Description string          `json:"description"`
}

// InitializeResult is a successful initialization
type InitializeResult struct {
	CheckoutURL string
	Payload     json.RawMessage
}

// VerifyStatus is the provider's authoritative answer for a transaction
type VerifyStatus string

const (
	VerifyConfirmed VerifyStatus = "confirmed"
	VerifyDeclined  VerifyStatus = "declined"
	VerifyPending   VerifyStatus = "pending"
)

// Outcome is a normalized verification result. Reference, Amount and
// Currency are set only when the provider reports them.
type Outcome struct {
	Status    VerifyStatus
	Reference string
	Currency  string
	Message   string
	Amount    decimal.NullDecimal
	Payload   json.RawMessage
}

// ErrUnavailable matches every error caused by failing to get a usable
// answer from the provider: transport errors, timeouts, 5xx responses and
// bodies that cannot be decoded. The operation is safe to retry.
var ErrUnavailable = errors.New("payment gateway unavailable")

// UnavailableError describes a failed provider round trip
type UnavailableError struct {
	Err        error
	Op         string
	Payload    json.RawMessage
	StatusCode int
}

func (e *UnavailableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s: unavailable (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway %s: unavailable: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is reports ErrUnavailable as a match
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// RejectedError is returned when the provider answered but refused the
// request. Payload is the provider response as received.
type RejectedError struct {
	Message    string
	Payload    json.RawMessage
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("gateway rejected request (status %d): %s", e.StatusCode, e.Message)
}

// rawPayload keeps b as JSON when it is valid, otherwise wraps it as a JSON string
func rawPayload(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, err := json.Marshal(string(b))
	if err != nil {
		return nil
	}
	return quoted
}
