package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/benx421/carmarket/internal/api"
	"github.com/benx421/carmarket/internal/gateway"
)

// SandboxSettler chooses the outcome a sandbox gateway reports for a reference
type SandboxSettler interface {
	Settle(txRef string, status gateway.VerifyStatus) bool
}

type settleBody struct {
	Status gateway.VerifyStatus `json:"status"`
}

// settleSandboxPayment handles POST /sandbox/payments/{tx_ref}/settle
func (h *Handler) settleSandboxPayment(settler SandboxSettler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body settleBody
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&body); err != nil {
			h.writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidInput, "invalid request body")
			return
		}

		switch body.Status {
		case gateway.VerifyConfirmed, gateway.VerifyDeclined, gateway.VerifyPending:
		default:
			h.writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidInput, "status must be confirmed, declined or pending")
			return
		}

		txRef := r.PathValue("tx_ref")
		if !settler.Settle(txRef, body.Status) {
			h.writeError(w, http.StatusNotFound, api.ErrorCodePaymentNotFound, "transaction unknown to the sandbox gateway")
			return
		}

		h.logger.Info("sandbox outcome set", "tx_ref", txRef, "status", body.Status)
		w.WriteHeader(http.StatusNoContent)
	}
}
