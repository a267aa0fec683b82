package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benx421/carmarket/internal/config"
	"github.com/benx421/carmarket/internal/gateway"
	"github.com/benx421/carmarket/internal/metrics"
	"github.com/benx421/carmarket/internal/models"
	"github.com/benx421/carmarket/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/benx421/carmarket/internal/service")

// CreatePaymentResult is a payment that was accepted by the gateway
type CreatePaymentResult struct {
	Payment     *models.PaymentTransaction
	CheckoutURL string
}

// PaymentService creates and lists buyer payments
type PaymentService struct {
	payments   repository.PaymentRepository
	cars       repository.CarRepository
	gateway    gateway.Client
	refs       *ReferenceGenerator
	metrics    *metrics.Metrics
	logger     *slog.Logger
	gatewayCfg config.GatewayConfig
	rules      config.PaymentsConfig
	maxAmount  decimal.Decimal
	tolerance  decimal.Decimal
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments repository.PaymentRepository,
	cars repository.CarRepository,
	gw gateway.Client,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:   payments,
		cars:       cars,
		gateway:    gw,
		refs:       NewReferenceGenerator(cfg.Payments.ReferencePrefix),
		metrics:    m,
		logger:     logger,
		gatewayCfg: cfg.Gateway,
		rules:      cfg.Payments,
		maxAmount:  decimal.NewFromFloat(cfg.Payments.MaxAmount),
		tolerance:  decimal.NewFromFloat(cfg.Payments.AmountTolerance),
	}
}

// CreatePayment records a pending payment for a car and initializes it with
// the gateway. The record is written before the gateway is contacted so every
// attempt leaves an audit row, whatever the provider answers.
func (s *PaymentService) CreatePayment(ctx context.Context, principal *models.Principal, req CreatePaymentRequest) (*CreatePaymentResult, error) {
	ctx, span := tracer.Start(ctx, "payments.create")
	defer span.End()

	input, err := ValidateCreatePayment(principal, req, s.maxAmount)
	if err != nil {
		s.metrics.PaymentsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	car, err := s.cars.FindByID(ctx, input.CarID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{Code: ErrCodeCarNotFound, Message: "car not found"}
		}
		return nil, internalError("failed to load car", err)
	}

	if err := s.checkAmount(input.Amount, car); err != nil {
		s.metrics.PaymentsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	payment := &models.PaymentTransaction{
		BuyerID:  principal.ID,
		CarID:    car.ID,
		Amount:   input.Amount,
		Currency: s.gatewayCfg.Currency,
		Gateway:  s.gatewayCfg.Name,
		Metadata: models.PaymentMetadata{
			CarMake:  car.Make,
			CarModel: car.Model,
			SellerID: car.SellerID.String(),
		},
	}

	if err := s.insertWithReference(ctx, payment); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("payment.tx_ref", payment.TransactionRef),
		attribute.String("payment.car_id", car.ID.String()),
	)

	result, initErr := s.gateway.Initialize(ctx, s.initializeRequest(principal, car, payment, input.Phone))

	// The provider may have acted on the request; record its answer even if
	// the caller has gone away.
	persistCtx := context.WithoutCancel(ctx)

	if initErr != nil {
		span.RecordError(initErr)
		span.SetStatus(codes.Error, "gateway initialize failed")
		return nil, s.recordInitializeFailure(persistCtx, payment, initErr)
	}

	metadata := payment.Metadata
	metadata.CheckoutURL = result.CheckoutURL
	pending := models.PaymentStatusPending

	// A verification that settled the payment first owns its metadata.
	updated, err := s.payments.Update(persistCtx, payment.ID, models.PaymentPatch{
		Metadata:     &metadata,
		ExpectStatus: &pending,
	})
	if errors.Is(err, models.ErrStatusConflict) {
		s.logger.Info("payment settled before checkout details were stored", "tx_ref", payment.TransactionRef)
		updated, err = s.payments.FindByID(persistCtx, payment.ID)
	}
	if err != nil {
		return nil, internalError("failed to store checkout details", err)
	}

	s.metrics.PaymentsCreated.WithLabelValues("initialized").Inc()
	s.logger.Info("payment initialized",
		"tx_ref", updated.TransactionRef,
		"payment_id", updated.ID,
		"amount", updated.Amount.String(),
		"currency", updated.Currency,
	)

	return &CreatePaymentResult{
		Payment:     updated,
		CheckoutURL: result.CheckoutURL,
	}, nil
}

// ListPayments returns the principal's most recent payments on this
// deployment's gateway. A limit outside 1..ListLimit falls back to ListLimit.
func (s *PaymentService) ListPayments(ctx context.Context, principal *models.Principal, limit int) ([]models.PaymentTransaction, error) {
	if principal == nil || principal.ID == uuid.Nil {
		return nil, &ServiceError{Code: ErrCodeUnauthenticated, Message: "user not authenticated"}
	}

	if limit <= 0 || limit > s.rules.ListLimit {
		limit = s.rules.ListLimit
	}

	payments, err := s.payments.ListByBuyer(ctx, principal.ID, s.gatewayCfg.Name, limit)
	if err != nil {
		return nil, internalError("failed to list payments", err)
	}

	return payments, nil
}

func (s *PaymentService) checkAmount(amount decimal.Decimal, car *models.Car) error {
	diff := amount.Sub(car.Price).Abs()
	if diff.LessThanOrEqual(s.tolerance) {
		return nil
	}

	if s.rules.AmountPolicy == config.AmountPolicyReject {
		return &ServiceError{
			Code: ErrCodeInvalidInput,
			Message: fmt.Sprintf("amount %s does not match car price %s",
				amount.StringFixed(2), car.Price.StringFixed(2)),
		}
	}

	s.logger.Warn("payment amount does not match car price",
		"car_id", car.ID,
		"amount", amount.String(),
		"price", car.Price.String(),
		"difference", diff.String(),
	)
	return nil
}

// insertWithReference stores payment under a fresh reference, regenerating
// it when the store reports a collision.
func (s *PaymentService) insertWithReference(ctx context.Context, payment *models.PaymentTransaction) error {
	for attempt := 1; attempt <= s.rules.ReferenceMaxAttempts; attempt++ {
		ref, err := s.refs.Generate(payment.BuyerID)
		if err != nil {
			return internalError("failed to generate transaction reference", err)
		}
		payment.TransactionRef = ref

		err = s.payments.Create(ctx, payment)
		if err == nil {
			return nil
		}
		if !errors.Is(err, models.ErrDuplicateReference) {
			return internalError("failed to record payment", err)
		}

		s.metrics.ReferenceCollisions.Inc()
		s.logger.Warn("transaction reference collision, regenerating",
			"tx_ref", ref,
			"attempt", attempt,
		)
	}

	s.metrics.PaymentsCreated.WithLabelValues("reference_exhausted").Inc()
	return &ServiceError{
		Code:    ErrCodeReferenceExhausted,
		Message: fmt.Sprintf("could not allocate a unique transaction reference after %d attempts", s.rules.ReferenceMaxAttempts),
	}
}

// recordInitializeFailure persists the gateway's answer and maps it to a
// ServiceError. A rejection is final and fails the payment; an unavailable
// provider leaves it pending since the request may still have landed.
func (s *PaymentService) recordInitializeFailure(ctx context.Context, payment *models.PaymentTransaction, initErr error) error {
	metadata := payment.Metadata

	var rejected *gateway.RejectedError
	if errors.As(initErr, &rejected) {
		metadata.InitError = rejected.Message
		metadata.FailureReason = "gateway rejected initialization"
		failed := models.PaymentStatusFailed
		pending := models.PaymentStatusPending

		if _, err := s.payments.Update(ctx, payment.ID, models.PaymentPatch{
			Status:       &failed,
			Metadata:     &metadata,
			ExpectStatus: &pending,
		}); err != nil && !errors.Is(err, models.ErrStatusConflict) {
			return internalError("failed to record gateway rejection", err)
		}

		s.metrics.PaymentsCreated.WithLabelValues("rejected").Inc()
		s.logger.Info("payment initialization rejected by gateway",
			"tx_ref", payment.TransactionRef,
			"reason", rejected.Message,
		)
		return &ServiceError{
			Code:    ErrCodeGatewayRejected,
			Message: "payment initialization failed: " + rejected.Message,
			Detail:  rejected.Payload,
			Err:     initErr,
		}
	}

	metadata.InitError = initErr.Error()
	pending := models.PaymentStatusPending
	if _, err := s.payments.Update(ctx, payment.ID, models.PaymentPatch{
		Metadata:     &metadata,
		ExpectStatus: &pending,
	}); err != nil && !errors.Is(err, models.ErrStatusConflict) {
		s.logger.Error("failed to record gateway error", "tx_ref", payment.TransactionRef, "error", err)
	}

	if !errors.Is(initErr, gateway.ErrUnavailable) {
		return internalError("failed to initialize payment", initErr)
	}

	s.metrics.PaymentsCreated.WithLabelValues("unavailable").Inc()
	s.logger.Warn("payment gateway unavailable during initialization",
		"tx_ref", payment.TransactionRef,
		"error", initErr,
	)

	svcErr := &ServiceError{
		Code:    ErrCodeGatewayUnavailable,
		Message: "payment gateway unavailable, please retry",
		Err:     initErr,
	}
	var unavailable *gateway.UnavailableError
	if errors.As(initErr, &unavailable) {
		svcErr.Detail = unavailable.Payload
	}
	return svcErr
}

func (s *PaymentService) initializeRequest(
	principal *models.Principal,
	car *models.Car,
	payment *models.PaymentTransaction,
	phone string,
) gateway.InitializeRequest {
	firstName, lastName := splitName(principal.Name)

	email := principal.Email
	if !IsDeliverableEmail(email) {
		email = fmt.Sprintf("buyer-%s@%s", shortID(principal.ID), s.rules.PlaceholderEmailDomain)
	}

	return gateway.InitializeRequest{
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phone,
		TxRef:       payment.TransactionRef,
		CallbackURL: s.gatewayCfg.CallbackURL,
		ReturnURL:   fmt.Sprintf("%s/cars/%s", s.gatewayCfg.AppBaseURL, car.ID),
		Description: fmt.Sprintf("Payment for %s %s (ID: %s)", car.Make, car.Model, car.ID),
	}
}

func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "Customer", "User"
	case 1:
		return fields[0], "User"
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-principalSuffixLength:]
}
