package service

import (
	"context"

	"github.com/benx421/carmarket/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// PaymentCreator opens a payment with the gateway for an authenticated buyer
type PaymentCreator interface {
	CreatePayment(ctx context.Context, principal *models.Principal, req CreatePaymentRequest) (*CreatePaymentResult, error)
}

// PaymentLister lists a buyer's payments
type PaymentLister interface {
	ListPayments(ctx context.Context, principal *models.Principal, limit int) ([]models.PaymentTransaction, error)
}

// Reconciler settles a payment against the gateway's record
type Reconciler interface {
	Reconcile(ctx context.Context, txRef string) (*models.PaymentTransaction, error)
}

// Ensure concrete types implement interfaces
var (
	_ PaymentCreator = (*PaymentService)(nil)
	_ PaymentLister  = (*PaymentService)(nil)
	_ Reconciler     = (*ReconcileService)(nil)
)
