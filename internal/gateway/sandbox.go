package gateway

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/benx421/carmarket/internal/config"
	"github.com/shopspring/decimal"
)

var errInjectedFailure = errors.New("sandbox failure injection")

type sandboxTransaction struct {
	amount   decimal.Decimal
	currency string
	status   VerifyStatus
}

// Sandbox is an in-process provider for local runs. It confirms every
// transaction it initialized, after a random latency, and fails a
// configurable share of calls as unavailable.
type Sandbox struct {
	logger       *slog.Logger
	transactions map[string]sandboxTransaction
	checkoutBase string
	failureRate  float64
	minLatencyMS int
	maxLatencyMS int
	mu           sync.Mutex
}

// NewSandbox creates a sandbox provider from the gateway configuration
func NewSandbox(cfg *config.GatewayConfig, logger *slog.Logger) *Sandbox {
	return &Sandbox{
		logger:       logger,
		transactions: make(map[string]sandboxTransaction),
		checkoutBase: cfg.AppBaseURL + "/sandbox/checkout/",
		failureRate:  cfg.SandboxFailureRate,
		minLatencyMS: cfg.SandboxMinLatencyMS,
		maxLatencyMS: cfg.SandboxMaxLatencyMS,
	}
}

// Initialize records the transaction and returns a sandbox checkout URL
func (s *Sandbox) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	if err := s.simulate(ctx, "initialize"); err != nil {
		return nil, err
	}

	if req.TxRef == "" || !req.Amount.IsPositive() {
		return nil, &RejectedError{
			StatusCode: http.StatusBadRequest,
			Message:    "tx_ref and a positive amount are required",
			Payload:    json.RawMessage(`{"status":"failed","message":"tx_ref and a positive amount are required","data":null}`),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[req.TxRef]; exists {
		return nil, &RejectedError{
			StatusCode: http.StatusBadRequest,
			Message:    "Transaction reference has been used before",
			Payload:    json.RawMessage(`{"status":"failed","message":"Transaction reference has been used before","data":null}`),
		}
	}
	s.transactions[req.TxRef] = sandboxTransaction{
		amount:   req.Amount,
		currency: req.Currency,
		status:   VerifyConfirmed,
	}

	checkoutURL := s.checkoutBase + url.PathEscape(req.TxRef)
	s.logger.Debug("sandbox transaction initialized", "tx_ref", req.TxRef)

	return &InitializeResult{
		CheckoutURL: checkoutURL,
		Payload:     sandboxPayload("Hosted Link", map[string]any{"checkout_url": checkoutURL}),
	}, nil
}

// Verify reports the stored outcome for txRef
func (s *Sandbox) Verify(ctx context.Context, txRef string) (*Outcome, error) {
	if err := s.simulate(ctx, "verify"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	txn, ok := s.transactions[txRef]
	s.mu.Unlock()

	if !ok {
		return nil, &RejectedError{
			StatusCode: http.StatusNotFound,
			Message:    "Invalid transaction or Transaction not found",
			Payload:    json.RawMessage(`{"status":"failed","message":"Invalid transaction or Transaction not found","data":null}`),
		}
	}

	providerStatus := "success"
	if txn.status != VerifyConfirmed {
		providerStatus = string(txn.status)
	}

	return &Outcome{
		Status:    txn.status,
		Reference: txRef,
		Currency:  txn.currency,
		Amount:    decimal.NewNullDecimal(txn.amount),
		Message:   "Payment details",
		Payload: sandboxPayload("Payment details", map[string]any{
			"tx_ref":   txRef,
			"amount":   txn.amount.String(),
			"currency": txn.currency,
			"status":   providerStatus,
			"mode":     "sandbox",
		}),
	}, nil
}

// Settle overrides the outcome later reported for an initialized txRef
func (s *Sandbox) Settle(txRef string, status VerifyStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.transactions[txRef]
	if !ok {
		return false
	}
	txn.status = status
	s.transactions[txRef] = txn
	return true
}

func (s *Sandbox) simulate(ctx context.Context, op string) error {
	if err := sleepContext(ctx, sandboxLatency(s.minLatencyMS, s.maxLatencyMS)); err != nil {
		return &UnavailableError{Op: op, Err: err}
	}

	if shouldInjectFailure(s.failureRate) {
		s.logger.Debug("sandbox injecting gateway failure", "operation", op)
		return &UnavailableError{Op: op, StatusCode: http.StatusInternalServerError, Err: errInjectedFailure}
	}
	return nil
}

func sandboxPayload(message string, data map[string]any) json.RawMessage {
	b, err := json.Marshal(map[string]any{
		"message": message,
		"status":  "success",
		"data":    data,
	})
	if err != nil {
		return nil
	}
	return b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func sandboxLatency(minMS, maxMS int) time.Duration {
	if minMS <= 0 && maxMS <= 0 {
		return 0
	}

	rangeMS := maxMS - minMS
	if rangeMS <= 0 {
		return time.Duration(minMS) * time.Millisecond
	}

	randomOffset, err := rand.Int(rand.Reader, big.NewInt(int64(rangeMS)))
	if err != nil {
		return time.Duration(minMS) * time.Millisecond
	}

	return time.Duration(minMS+int(randomOffset.Int64())) * time.Millisecond
}

func shouldInjectFailure(failureRate float64) bool {
	if failureRate <= 0 {
		return false
	}
	if failureRate >= 1 {
		return true
	}

	const precision = 1000000
	randomNum, err := rand.Int(rand.Reader, big.NewInt(precision))
	if err != nil {
		return false
	}

	threshold := int64(failureRate * precision)
	return randomNum.Int64() < threshold
}
