package handlers

import (
	"net/http"

	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
	perksvc "github.com/Aizen-Agency/dreamster-be/internal/services/perks"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
	httperrors "github.com/Aizen-Agency/dreamster-be/internal/transport/http/errors"
)

type PerksHandler struct {
	perks *perksvc.Service
}

func NewPerksHandler(perks *perksvc.Service) *PerksHandler {
	return &PerksHandler{perks: perks}
}

func (h *PerksHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.perks == nil {
		writeInternal(w, "PERKS_SERVICE_UNAVAILABLE", "perks service is unavailable")
		return
	}

	items, err := h.perks.ListForUser(r.Context(), identity.UserID, defaultPageSize)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list perks")
		return
	}

	perks := make([]dto.Perk, 0, len(items))
	for _, item := range items {
		perks = append(perks, dto.Perk{
			PerkID:      item.PerkID,
			TrackID:     item.TrackID,
			TrackTitle:  item.TrackTitle,
			Title:       item.Title,
			Description: item.Description,
			UnlockedAt:  item.PurchasedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.PerksResponse{Perks: perks})
}
