package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
	checkoutsvc "github.com/Aizen-Agency/dreamster-be/internal/services/checkout"
	ratesvc "github.com/Aizen-Agency/dreamster-be/internal/services/rate"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
	httperrors "github.com/Aizen-Agency/dreamster-be/internal/transport/http/errors"
)

type CheckoutHandler struct {
	checkout *checkoutsvc.Service
	limiter  *ratesvc.Limiter
}

func NewCheckoutHandler(checkout *checkoutsvc.Service, limiter *ratesvc.Limiter) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, limiter: limiter}
}

func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.checkout == nil {
		writeInternal(w, "CHECKOUT_SERVICE_UNAVAILABLE", "checkout service is unavailable")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.Allow(r.Context(), identity.UserID)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to check rate limit")
			return
		}
		if !allowed {
			writeTooManyRequests(w, "RATE_LIMITED", "too many checkout attempts", retryAfter)
			return
		}
	}

	var req dto.CheckoutSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	session, err := h.checkout.CreateSession(r.Context(), identity.UserID, checkoutsvc.CreateSessionInput{
		TrackID:  req.TrackID,
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkoutsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid checkout payload")
		case errors.Is(err, checkoutsvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, checkoutsvc.ErrTrackNotFound), errors.Is(err, checkoutsvc.ErrTrackNotPurchasable):
			writeNotFound(w, "TRACK_NOT_FOUND", "track not found or not available for purchase")
		case errors.Is(err, checkoutsvc.ErrInvalidAmount):
			writeBadRequest(w, "INVALID_AMOUNT", "invalid track price")
		case errors.Is(err, checkoutsvc.ErrAlreadyOwned):
			httperrors.Write(w, http.StatusConflict, httperrors.APIError{
				Code:    "ALREADY_OWNED",
				Message: "track already in library",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create checkout session")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CheckoutSessionResponse{
		SessionID:   session.SessionID,
		CheckoutURL: session.URL,
		TrackID:     session.TrackID,
		Title:       session.Title,
		Amount:      session.Amount.StringFixed(2),
		Currency:    session.Currency,
		Quantity:    session.Quantity,
	})
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func writeTooManyRequests(w http.ResponseWriter, code, message string, retryAfterSec int64) {
	httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
		Code:          code,
		Message:       message,
		RetryAfterSec: retryAfterSec,
	})
}
