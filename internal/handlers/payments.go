package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/benx421/carmarket/internal/api"
	"github.com/benx421/carmarket/internal/auth"
	"github.com/benx421/carmarket/internal/service"
)

// CreatePayment handles POST /payments
func (h *Handler) CreatePayment(
	ctx context.Context,
	request api.CreatePaymentRequestObject,
) (api.CreatePaymentResponseObject, error) {
	principal := auth.PrincipalFrom(ctx)
	if principal == nil {
		return api.CreatePayment401JSONResponse{ErrorJSONResponse: unauthenticatedResponse()}, nil
	}
	if request.Body == nil {
		return api.CreatePayment400JSONResponse{
			ErrorJSONResponse: api.ErrorJSONResponse{
				Error:   api.ErrorCodeInvalidInput,
				Message: "request body is required",
			},
		}, nil
	}

	var phone string
	if request.Body.Phone != nil {
		phone = *request.Body.Phone
	}

	result, err := h.creator.CreatePayment(ctx, principal, service.CreatePaymentRequest{
		CarID:  request.Body.CarId,
		Amount: request.Body.Amount.String(),
		Phone:  phone,
	})
	if err != nil {
		return h.handleCreatePaymentError(err)
	}

	return api.CreatePayment201JSONResponse{
		CheckoutUrl:    result.CheckoutURL,
		TransactionRef: result.Payment.TransactionRef,
		PaymentId:      result.Payment.ID,
		Amount:         json.Number(result.Payment.Amount.String()),
	}, nil
}

// ListMyPayments handles GET /payments/mine
func (h *Handler) ListMyPayments(
	ctx context.Context,
	request api.ListMyPaymentsRequestObject,
) (api.ListMyPaymentsResponseObject, error) {
	principal := auth.PrincipalFrom(ctx)
	if principal == nil {
		return api.ListMyPayments401JSONResponse{ErrorJSONResponse: unauthenticatedResponse()}, nil
	}

	var limit int
	if request.Params.Limit != nil {
		limit = *request.Params.Limit
	}

	payments, err := h.lister.ListPayments(ctx, principal, limit)
	if err != nil {
		svcErr := extractServiceError(err)
		if svcErr != nil && svcErr.Code == service.ErrCodeUnauthenticated {
			return api.ListMyPayments401JSONResponse{ErrorJSONResponse: errorResponse(svcErr)}, nil
		}
		h.logger.Error("failed to list payments", "buyer_id", principal.ID, "error", err)
		return api.ListMyPayments500JSONResponse{ErrorJSONResponse: internalErrorResponse()}, nil
	}

	out := make(api.ListMyPayments200JSONResponse, 0, len(payments))
	for i := range payments {
		out = append(out, toAPIPayment(&payments[i]))
	}
	return out, nil
}

// handleCreatePaymentError maps service errors to appropriate HTTP responses
func (h *Handler) handleCreatePaymentError(err error) (api.CreatePaymentResponseObject, error) {
	svcErr := extractServiceError(err)
	if svcErr == nil {
		h.logger.Error("unexpected error creating payment", "error", err)
		return api.CreatePayment500JSONResponse{ErrorJSONResponse: internalErrorResponse()}, nil
	}

	body := errorResponse(svcErr)

	switch statusForCode(svcErr.Code) {
	case http.StatusBadRequest:
		return api.CreatePayment400JSONResponse{ErrorJSONResponse: body}, nil
	case http.StatusUnauthorized:
		return api.CreatePayment401JSONResponse{ErrorJSONResponse: body}, nil
	case http.StatusNotFound:
		return api.CreatePayment404JSONResponse{ErrorJSONResponse: body}, nil
	default:
		h.logger.Error("payment creation failed", "code", svcErr.Code, "error", svcErr)
		return api.CreatePayment500JSONResponse{ErrorJSONResponse: body}, nil
	}
}
