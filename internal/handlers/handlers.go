// Package handlers implements the carmarket payments API on top of the
// generated strict server in package api.
package handlers

import (
	"log/slog"

	"github.com/benx421/carmarket/internal/api"
	"github.com/benx421/carmarket/internal/service"
)

// Handler implements api.StrictServerInterface for the payment endpoints
type Handler struct {
	creator       service.PaymentCreator
	lister        service.PaymentLister
	reconciler    service.Reconciler
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

var _ api.StrictServerInterface = (*Handler)(nil)

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	creator service.PaymentCreator,
	lister service.PaymentLister,
	reconciler service.Reconciler,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		creator:       creator,
		lister:        lister,
		reconciler:    reconciler,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
