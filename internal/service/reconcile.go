package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benx421/carmarket/internal/gateway"
	"github.com/benx421/carmarket/internal/metrics"
	"github.com/benx421/carmarket/internal/models"
	"github.com/benx421/carmarket/internal/repository"
	"go.opentelemetry.io/otel/attribute"
)

// ReconcileService settles pending payments against the gateway
type ReconcileService struct {
	payments repository.PaymentRepository
	gateway  gateway.Client
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(
	payments repository.PaymentRepository,
	gw gateway.Client,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ReconcileService {
	return &ReconcileService{
		payments: payments,
		gateway:  gw,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Reconcile verifies txRef with the gateway and moves a pending payment to
// its terminal status. Terminal payments are returned as stored without
// contacting the gateway. A payment the provider still reports as pending,
// or one the provider could not be asked about, stays pending.
func (s *ReconcileService) Reconcile(ctx context.Context, txRef string) (*models.PaymentTransaction, error) {
	ctx, span := tracer.Start(ctx, "payments.reconcile")
	defer span.End()

	txRef = strings.TrimSpace(txRef)
	if txRef == "" {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: "transaction reference (tx_ref) is required",
		}
	}
	span.SetAttributes(attribute.String("payment.tx_ref", txRef))

	payment, err := s.payments.FindByRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{Code: ErrCodePaymentNotFound, Message: "payment not found"}
		}
		return nil, internalError("failed to load payment", err)
	}

	if payment.Status.IsTerminal() {
		s.metrics.Reconciliations.WithLabelValues("skipped").Inc()
		s.logger.Debug("payment already settled, skipping verification",
			"tx_ref", txRef,
			"status", payment.Status,
		)
		return payment, nil
	}

	outcome, verifyErr := s.gateway.Verify(ctx, txRef)
	persistCtx := context.WithoutCancel(ctx)

	if verifyErr != nil {
		span.RecordError(verifyErr)

		var rejected *gateway.RejectedError
		if errors.As(verifyErr, &rejected) {
			return s.finalize(persistCtx, payment, models.PaymentStatusFailed, rejected.Payload,
				"verification rejected by gateway: "+rejected.Message)
		}

		if errors.Is(verifyErr, gateway.ErrUnavailable) {
			s.metrics.Reconciliations.WithLabelValues("unavailable").Inc()
			s.logger.Warn("payment gateway unavailable during verification",
				"tx_ref", txRef,
				"error", verifyErr,
			)
			svcErr := &ServiceError{
				Code:    ErrCodeGatewayUnavailable,
				Message: "payment gateway unavailable, please retry",
				Err:     verifyErr,
			}
			var unavailable *gateway.UnavailableError
			if errors.As(verifyErr, &unavailable) {
				svcErr.Detail = unavailable.Payload
			}
			return nil, svcErr
		}

		return nil, internalError("failed to verify payment", verifyErr)
	}

	switch outcome.Status {
	case gateway.VerifyPending:
		s.metrics.Reconciliations.WithLabelValues("pending").Inc()
		return payment, nil
	case gateway.VerifyConfirmed:
		if missing := unprovenConfirmation(outcome); missing != "" {
			s.metrics.Reconciliations.WithLabelValues("pending").Inc()
			s.logger.Warn("gateway confirmation is incomplete, payment left pending",
				"tx_ref", txRef,
				"missing", missing,
			)
			return payment, nil
		}
		if reason := outcomeMismatch(payment, outcome); reason != "" {
			s.logger.Warn("gateway confirmation does not match payment", "tx_ref", txRef, "reason", reason)
			return s.finalize(persistCtx, payment, models.PaymentStatusFailed, outcome.Payload, reason)
		}
		return s.finalize(persistCtx, payment, models.PaymentStatusCompleted, outcome.Payload, "")
	default:
		return s.finalize(persistCtx, payment, models.PaymentStatusFailed, outcome.Payload,
			"payment declined by gateway: "+outcome.Message)
	}
}

// finalize writes the terminal status only if the payment is still pending.
// When another reconciliation got there first its result is returned.
func (s *ReconcileService) finalize(
	ctx context.Context,
	payment *models.PaymentTransaction,
	status models.PaymentStatus,
	payload json.RawMessage,
	reason string,
) (*models.PaymentTransaction, error) {
	if !payment.Status.CanTransitionTo(status) {
		return payment, nil
	}

	verifiedAt := s.now().UTC()
	metadata := payment.Metadata
	metadata.VerificationPayload = payload
	metadata.VerifiedAt = &verifiedAt
	metadata.FailureReason = reason

	expect := payment.Status
	updated, err := s.payments.Update(ctx, payment.ID, models.PaymentPatch{
		Status:       &status,
		Metadata:     &metadata,
		ExpectStatus: &expect,
	})
	if errors.Is(err, models.ErrStatusConflict) {
		current, findErr := s.payments.FindByID(ctx, payment.ID)
		if findErr != nil {
			return nil, internalError("failed to reload payment", findErr)
		}
		s.logger.Info("payment settled by a concurrent verification",
			"tx_ref", payment.TransactionRef,
			"status", current.Status,
		)
		return current, nil
	}
	if err != nil {
		return nil, internalError("failed to update payment status", err)
	}

	s.metrics.Reconciliations.WithLabelValues(string(status)).Inc()
	s.logger.Info("payment reconciled",
		"tx_ref", updated.TransactionRef,
		"status", updated.Status,
	)

	return updated, nil
}

// unprovenConfirmation names the field a confirmation lacks to be matched
// against the stored payment.
func unprovenConfirmation(outcome *gateway.Outcome) string {
	switch {
	case outcome.Reference == "":
		return "reference"
	case !outcome.Amount.Valid:
		return "amount"
	}
	return ""
}

func outcomeMismatch(payment *models.PaymentTransaction, outcome *gateway.Outcome) string {
	if outcome.Reference != payment.TransactionRef {
		return fmt.Sprintf("gateway reported reference %s, expected %s", outcome.Reference, payment.TransactionRef)
	}
	if !outcome.Amount.Decimal.Equal(payment.Amount) {
		return fmt.Sprintf("gateway reported amount %s, expected %s",
			outcome.Amount.Decimal.String(), payment.Amount.String())
	}
	if outcome.Currency != "" && !strings.EqualFold(outcome.Currency, payment.Currency) {
		return fmt.Sprintf("gateway reported currency %s, expected %s", outcome.Currency, payment.Currency)
	}
	return ""
}
