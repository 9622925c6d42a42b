package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	trackssvc "github.com/Aizen-Agency/dreamster-be/internal/services/tracks"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
	httperrors "github.com/Aizen-Agency/dreamster-be/internal/transport/http/errors"
)

type TracksHandler struct {
	tracks *trackssvc.Service
}

func NewTracksHandler(tracks *trackssvc.Service) *TracksHandler {
	return &TracksHandler{tracks: tracks}
}

func (h *TracksHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.tracks == nil {
		writeInternal(w, "TRACKS_SERVICE_UNAVAILABLE", "tracks service is unavailable")
		return
	}

	track, err := h.tracks.Get(r.Context(), chi.URLParam(r, "track_id"))
	if err != nil {
		writeTrackError(w, err, "failed to load track")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TrackResponse{
		ID:          track.ID,
		Title:       track.Title,
		Description: track.Description,
		Genre:       track.Genre,
		Price:       track.Price.StringFixed(2),
		ArtistID:    track.ArtistID,
		ArtistName:  track.ArtistName,
		DurationSec: track.DurationSec,
		StreamCount: track.StreamCount,
		SalesCount:  track.SalesCount,
		LikeCount:   track.LikeCount,
		CreatedAt:   track.CreatedAt,
	})
}

func (h *TracksHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.tracks == nil {
		writeInternal(w, "TRACKS_SERVICE_UNAVAILABLE", "tracks service is unavailable")
		return
	}

	grant, err := h.tracks.Stream(r.Context(), chi.URLParam(r, "track_id"))
	if err != nil {
		if errors.Is(err, trackssvc.ErrNoAudio) {
			writeNotFound(w, "AUDIO_NOT_FOUND", "track has no audio")
			return
		}
		writeTrackError(w, err, "failed to open stream")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StreamResponse{
		TrackID:      grant.TrackID,
		URL:          grant.URL,
		ExpiresInSec: int64(grant.ExpiresIn.Seconds()),
		StreamCount:  grant.StreamCount,
	})
}

func writeTrackError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, trackssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid track id")
	case errors.Is(err, trackssvc.ErrTrackNotFound), errors.Is(err, trackssvc.ErrTrackNotPublic):
		// Hidden tracks are indistinguishable from missing ones.
		writeNotFound(w, "TRACK_NOT_FOUND", "track not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}
