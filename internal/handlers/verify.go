package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/benx421/carmarket/internal/api"
	"github.com/benx421/carmarket/internal/models"
)

// verification is a reconcile result before it is bound to the response
// types of the operation that asked for it. body answers 200, 202 and 400;
// failure answers 404 and 500.
type verification struct {
	body    api.VerificationJSONResponse
	failure api.ErrorJSONResponse
	status  int
}

// VerifyPayment handles GET /payments/verify?tx_ref=
func (h *Handler) VerifyPayment(
	ctx context.Context,
	request api.VerifyPaymentRequestObject,
) (api.VerifyPaymentResponseObject, error) {
	v := h.verify(ctx, firstRef(request.Params.TxRef))

	switch v.status {
	case http.StatusOK:
		return api.VerifyPayment200JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusAccepted:
		return api.VerifyPayment202JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusBadRequest:
		return api.VerifyPayment400JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusNotFound:
		return api.VerifyPayment404JSONResponse{ErrorJSONResponse: v.failure}, nil
	default:
		return api.VerifyPayment500JSONResponse{ErrorJSONResponse: v.failure}, nil
	}
}

// PaymentCallbackRedirect handles GET /payments/callback. The provider
// returns the buyer with trx_ref; tx_ref is accepted as well.
func (h *Handler) PaymentCallbackRedirect(
	ctx context.Context,
	request api.PaymentCallbackRedirectRequestObject,
) (api.PaymentCallbackRedirectResponseObject, error) {
	v := h.verify(ctx, firstRef(request.Params.TxRef, request.Params.TrxRef))

	switch v.status {
	case http.StatusOK:
		return api.PaymentCallbackRedirect200JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusAccepted:
		return api.PaymentCallbackRedirect202JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusBadRequest:
		return api.PaymentCallbackRedirect400JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusNotFound:
		return api.PaymentCallbackRedirect404JSONResponse{ErrorJSONResponse: v.failure}, nil
	default:
		return api.PaymentCallbackRedirect500JSONResponse{ErrorJSONResponse: v.failure}, nil
	}
}

// PaymentCallbackWebhook handles POST /payments/callback
func (h *Handler) PaymentCallbackWebhook(
	ctx context.Context,
	request api.PaymentCallbackWebhookRequestObject,
) (api.PaymentCallbackWebhookResponseObject, error) {
	var txRef string
	if request.Body != nil {
		txRef = firstRef(request.Body.TxRef, request.Body.TrxRef)
	}
	v := h.verify(ctx, txRef)

	switch v.status {
	case http.StatusOK:
		return api.PaymentCallbackWebhook200JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusAccepted:
		return api.PaymentCallbackWebhook202JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusBadRequest:
		return api.PaymentCallbackWebhook400JSONResponse{VerificationJSONResponse: v.body}, nil
	case http.StatusNotFound:
		return api.PaymentCallbackWebhook404JSONResponse{ErrorJSONResponse: v.failure}, nil
	default:
		return api.PaymentCallbackWebhook500JSONResponse{ErrorJSONResponse: v.failure}, nil
	}
}

func (h *Handler) verify(ctx context.Context, txRef string) verification {
	payment, err := h.reconciler.Reconcile(ctx, txRef)
	if err != nil {
		svcErr := extractServiceError(err)
		if svcErr == nil {
			h.logger.Error("unexpected error verifying payment", "tx_ref", txRef, "error", err)
			return verification{status: http.StatusInternalServerError, failure: internalErrorResponse()}
		}

		status := statusForCode(svcErr.Code)
		switch status {
		case http.StatusBadRequest:
			code := mapServiceErrorToCode(svcErr.Code)
			return verification{
				status: status,
				body: api.VerificationJSONResponse{
					Error:   &code,
					Message: svcErr.Message,
					Detail:  svcErr.Detail,
				},
			}
		case http.StatusNotFound:
			return verification{status: status, failure: errorResponse(svcErr)}
		default:
			h.logger.Error("payment verification failed", "tx_ref", txRef, "code", svcErr.Code, "error", svcErr)
			return verification{status: http.StatusInternalServerError, failure: errorResponse(svcErr)}
		}
	}

	out := toAPIPayment(payment)
	body := api.VerificationJSONResponse{Payment: &out}

	switch payment.Status {
	case models.PaymentStatusCompleted:
		body.Message = "Payment verified and completed"
		return verification{status: http.StatusOK, body: body}
	case models.PaymentStatusFailed:
		code := api.ErrorCodeGatewayDeclined
		body.Error = &code
		body.Message = "Payment verification failed"
		if payment.Metadata.FailureReason != "" {
			body.Message += ": " + payment.Metadata.FailureReason
		}
		body.Detail = payment.Metadata.VerificationPayload
		return verification{status: http.StatusBadRequest, body: body}
	case models.PaymentStatusPending:
		body.Message = "Payment is awaiting confirmation from the gateway"
		return verification{status: http.StatusAccepted, body: body}
	default:
		body.Message = fmt.Sprintf("Payment is %s", payment.Status)
		return verification{status: http.StatusOK, body: body}
	}
}

// firstRef returns the first non-empty reference
func firstRef(refs ...*string) string {
	for _, ref := range refs {
		if ref != nil && *ref != "" {
			return *ref
		}
	}
	return ""
}
