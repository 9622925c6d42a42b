package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
	librarysvc "github.com/Aizen-Agency/dreamster-be/internal/services/library"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
	httperrors "github.com/Aizen-Agency/dreamster-be/internal/transport/http/errors"
)

const defaultPageSize = 100

type LibraryHandler struct {
	library *librarysvc.Service
}

func NewLibraryHandler(library *librarysvc.Service) *LibraryHandler {
	return &LibraryHandler{library: library}
}

func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.library == nil {
		writeInternal(w, "LIBRARY_SERVICE_UNAVAILABLE", "library service is unavailable")
		return
	}

	items, err := h.library.ListOwnedTracks(r.Context(), identity.UserID, defaultPageSize)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list library")
		return
	}

	tracks := make([]dto.OwnedTrack, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, dto.OwnedTrack{
			TrackID:       item.TrackID,
			Title:         item.Title,
			Genre:         item.Genre,
			Price:         item.Price.StringFixed(2),
			ArtistID:      item.ArtistID,
			ArtistName:    item.ArtistName,
			DurationSec:   item.DurationSec,
			TransactionID: item.TransactionID,
			PurchasedAt:   item.PurchasedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.LibraryResponse{Tracks: tracks})
}

func (h *LibraryHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.library == nil {
		writeInternal(w, "LIBRARY_SERVICE_UNAVAILABLE", "library service is unavailable")
		return
	}

	items, err := h.library.ListTransactions(r.Context(), identity.UserID, defaultPageSize)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list transactions")
		return
	}

	transactions := make([]dto.Transaction, 0, len(items))
	for _, item := range items {
		out := dto.Transaction{
			ID:        item.ID,
			TrackID:   item.TrackID,
			Amount:    item.Amount.StringFixed(2),
			PaymentID: item.PaymentID,
			Status:    item.Status,
			CreatedAt: item.CreatedAt,
		}
		if item.ErrorMessage != nil {
			out.ErrorMessage = *item.ErrorMessage
		}
		transactions = append(transactions, out)
	}

	httperrors.Write(w, http.StatusOK, dto.TransactionsResponse{Transactions: transactions})
}

func (h *LibraryHandler) Owns(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.library == nil {
		writeInternal(w, "LIBRARY_SERVICE_UNAVAILABLE", "library service is unavailable")
		return
	}

	trackID := chi.URLParam(r, "track_id")
	owned, err := h.library.Owns(r.Context(), identity.UserID, trackID)
	if err != nil {
		if errors.Is(err, librarysvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid track id")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to check ownership")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OwnsResponse{TrackID: trackID, Owned: owned})
}
