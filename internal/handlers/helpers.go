package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/benx421/carmarket/internal/api"
	"github.com/benx421/carmarket/internal/models"
	"github.com/benx421/carmarket/internal/service"
)

const maxRequestBodyBytes = 1 << 20

func toAPIPayment(p *models.PaymentTransaction) api.Payment {
	return api.Payment{
		Id:             p.ID,
		BuyerId:        p.BuyerID,
		CarId:          p.CarID,
		Amount:         json.Number(p.Amount.String()),
		Currency:       p.Currency,
		TransactionRef: p.TransactionRef,
		Status:         api.PaymentStatus(p.Status),
		Gateway:        p.Gateway,
		Metadata:       p.Metadata,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func mapServiceErrorToCode(code string) api.ErrorCode {
	switch code {
	case service.ErrCodeInvalidInput:
		return api.ErrorCodeInvalidInput
	case service.ErrCodeUnauthenticated:
		return api.ErrorCodeUnauthenticated
	case service.ErrCodeCarNotFound:
		return api.ErrorCodeCarNotFound
	case service.ErrCodePaymentNotFound:
		return api.ErrorCodePaymentNotFound
	case service.ErrCodeReferenceExhausted:
		return api.ErrorCodeReferenceExhausted
	case service.ErrCodeGatewayUnavailable:
		return api.ErrorCodeGatewayUnavailable
	case service.ErrCodeGatewayRejected:
		return api.ErrorCodeGatewayRejected
	case service.ErrCodeGatewayDeclined:
		return api.ErrorCodeGatewayDeclined
	default:
		return api.ErrorCodeInternalError
	}
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidInput, service.ErrCodeGatewayRejected, service.ErrCodeGatewayDeclined:
		return http.StatusBadRequest
	case service.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case service.ErrCodeCarNotFound, service.ErrCodePaymentNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

func errorResponse(svcErr *service.ServiceError) api.ErrorJSONResponse {
	return api.ErrorJSONResponse{
		Error:   mapServiceErrorToCode(svcErr.Code),
		Message: svcErr.Message,
		Detail:  svcErr.Detail,
	}
}

func internalErrorResponse() api.ErrorJSONResponse {
	return api.ErrorJSONResponse{
		Error:   api.ErrorCodeInternalError,
		Message: "internal error",
	}
}

func unauthenticatedResponse() api.ErrorJSONResponse {
	return api.ErrorJSONResponse{
		Error:   api.ErrorCodeUnauthenticated,
		Message: "user not authenticated",
	}
}

// handleRequestError answers requests the generated layer could not bind:
// malformed JSON bodies and query or header parameters of the wrong type.
func (h *Handler) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Debug("rejecting malformed request", "path", r.URL.Path, "error", err)
	h.writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidInput, err.Error())
}

func (h *Handler) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("failed to write response", "path", r.URL.Path, "error", err)
	h.writeError(w, http.StatusInternalServerError, api.ErrorCodeInternalError, "internal error")
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code api.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.Error{Error: code, Message: message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
