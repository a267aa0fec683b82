package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benx421/carmarket/internal/config"
	"github.com/benx421/carmarket/internal/metrics"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 1 << 20

// ChapaClient talks to the Chapa REST API
type ChapaClient struct {
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *slog.Logger
	baseURL    string
	secretKey  string
}

// NewChapaClient creates a client with the configured timeout and an
// instrumented transport
func NewChapaClient(cfg *config.GatewayConfig, m *metrics.Metrics, logger *slog.Logger) *ChapaClient {
	return &ChapaClient{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		metrics:   m,
		logger:    logger,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
	}
}

type chapaEnvelope struct {
	Message json.RawMessage `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
}

type chapaCheckout struct {
	CheckoutURL string `json:"checkout_url"`
}

type chapaTransaction struct {
	Amount    decimal.NullDecimal `json:"amount"`
	Currency  string              `json:"currency"`
	Status    string              `json:"status"`
	TxRef     string              `json:"tx_ref"`
	Reference string              `json:"reference"`
}

// Initialize registers the transaction and returns the hosted checkout URL
func (c *ChapaClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	env, raw, err := c.do(ctx, "initialize", http.MethodPost, c.baseURL+"/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	var checkout chapaCheckout
	if err := json.Unmarshal(env.Data, &checkout); err != nil || checkout.CheckoutURL == "" {
		return nil, &UnavailableError{
			Op:         "initialize",
			StatusCode: http.StatusOK,
			Payload:    rawPayload(raw),
			Err:        errors.New("response has no checkout url"),
		}
	}

	return &InitializeResult{
		CheckoutURL: checkout.CheckoutURL,
		Payload:     rawPayload(raw),
	}, nil
}

// Verify asks the provider for the outcome of txRef
func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*Outcome, error) {
	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(txRef)

	env, raw, err := c.do(ctx, "verify", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var txn chapaTransaction
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &txn); err != nil {
			return nil, &UnavailableError{
				Op:         "verify",
				StatusCode: http.StatusOK,
				Payload:    rawPayload(raw),
				Err:        fmt.Errorf("failed to decode transaction: %w", err),
			}
		}
	}

	payload := rawPayload(env.Data)
	if payload == nil || string(payload) == "null" {
		payload = rawPayload(raw)
	}

	return &Outcome{
		Status:    verifyStatus(txn.Status),
		Reference: txn.TxRef,
		Currency:  txn.Currency,
		Amount:    txn.Amount,
		Message:   messageText(env.Message),
		Payload:   payload,
	}, nil
}

// do performs one provider call and classifies the response. It returns the
// decoded envelope and the raw body only for a "success" status.
func (c *ChapaClient) do(ctx context.Context, op, method, endpoint string, body []byte) (*chapaEnvelope, []byte, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("external.service", "chapa"),
		attribute.String("gateway.operation", op),
	)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveGateway(op, "unavailable", start)
		c.logger.Warn("payment gateway request failed", "operation", op, "error", err)
		return nil, nil, &UnavailableError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // body already consumed
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.ObserveGateway(op, "unavailable", start)
		return nil, nil, &UnavailableError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.metrics.ObserveGateway(op, "unavailable", start)
		c.logger.Warn("payment gateway server error", "operation", op, "status", resp.StatusCode)
		return nil, nil, &UnavailableError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Payload:    rawPayload(raw),
			Err:        fmt.Errorf("provider returned %s", http.StatusText(resp.StatusCode)),
		}
	}

	var env chapaEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.metrics.ObserveGateway(op, "unavailable", start)
		return nil, nil, &UnavailableError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Payload:    rawPayload(raw),
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	if !strings.EqualFold(env.Status, "success") {
		c.metrics.ObserveGateway(op, "rejected", start)
		c.logger.Info("payment gateway rejected request",
			"operation", op,
			"status", resp.StatusCode,
			"provider_status", env.Status,
		)
		return nil, nil, &RejectedError{
			StatusCode: resp.StatusCode,
			Message:    messageText(env.Message),
			Payload:    rawPayload(raw),
		}
	}

	c.metrics.ObserveGateway(op, "ok", start)

	return &env, raw, nil
}

// verifyStatus maps the transaction status. A response without one, such as
// a null data object, carries no verdict and is left pending.
func verifyStatus(providerStatus string) VerifyStatus {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "success":
		return VerifyConfirmed
	case "pending", "":
		return VerifyPending
	default:
		return VerifyDeclined
	}
}

// messageText flattens the provider message, which is either a string or a
// field-to-errors object for validation failures.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "unknown error"
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" {
			return "unknown error"
		}
		return text
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
