package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Aizen-Agency/dreamster-be/internal/payment"
	fulfillsvc "github.com/Aizen-Agency/dreamster-be/internal/services/fulfillment"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
	httperrors "github.com/Aizen-Agency/dreamster-be/internal/transport/http/errors"
)

// Raised bodies mean something is wrong upstream; real provider payloads
// stay well under this.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	fulfillment *fulfillsvc.Service
	logger      *zap.Logger
}

func NewWebhookHandler(fulfillment *fulfillsvc.Service, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{fulfillment: fulfillment, logger: logger}
}

// Handle processes signed provider callbacks. The route is unauthenticated;
// the signature check inside the fulfillment service is the only gate.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.fulfillment == nil {
		writeInternal(w, "FULFILLMENT_SERVICE_UNAVAILABLE", "fulfillment service is unavailable")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeBadRequest(w, "INVALID_PAYLOAD", "failed to read webhook body")
		return
	}

	result, err := h.fulfillment.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			h.logger.Warn("webhook signature verification failed",
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())))
			writeBadRequest(w, "INVALID_SIGNATURE", "webhook signature verification failed")
		case errors.Is(err, payment.ErrInvalidPayload):
			h.logger.Warn("webhook payload rejected",
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err))
			writeBadRequest(w, "INVALID_PAYLOAD", "webhook payload could not be decoded")
		case errors.Is(err, fulfillsvc.ErrMissingMetadata):
			writeBadRequest(w, "MISSING_METADATA", "payment event carries no purchase metadata")
		case errors.Is(err, fulfillsvc.ErrInvalidReference):
			// 400 instead of 500: the provider must not redeliver events
			// that can never apply to this database.
			writeBadRequest(w, "UNKNOWN_REFERENCE", "webhook references unknown user or track")
		default:
			h.logger.Error("webhook processing failed", zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "failed to process webhook")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.WebhookResponse{
		Received: true,
		Outcome:  string(result.Outcome),
	})
}
