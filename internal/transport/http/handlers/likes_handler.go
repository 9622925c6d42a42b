package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
	likessvc "github.com/Aizen-Agency/dreamster-be/internal/services/likes"
	ratesvc "github.com/Aizen-Agency/dreamster-be/internal/services/rate"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
	httperrors "github.com/Aizen-Agency/dreamster-be/internal/transport/http/errors"
)

type LikesHandler struct {
	likes   *likessvc.Service
	limiter *ratesvc.Limiter
}

func NewLikesHandler(likes *likessvc.Service, limiter *ratesvc.Limiter) *LikesHandler {
	return &LikesHandler{likes: likes, limiter: limiter}
}

func (h *LikesHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, userID, trackID string) (likessvc.LikeState, error) {
		return h.likes.Like(ctx, userID, trackID)
	})
}

func (h *LikesHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, userID, trackID string) (likessvc.LikeState, error) {
		return h.likes.Unlike(ctx, userID, trackID)
	})
}

func (h *LikesHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.likes == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	trackID := chi.URLParam(r, "track_id")
	liked, err := h.likes.Liked(r.Context(), identity.UserID, trackID)
	if err != nil {
		switch {
		case errors.Is(err, likessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid track id")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to look up like")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikeStatusResponse{TrackID: trackID, Liked: liked})
}

func (h *LikesHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, trackID string) (likessvc.LikeState, error),
) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.likes == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.Allow(r.Context(), identity.UserID)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to check rate limit")
			return
		}
		if !allowed {
			writeTooManyRequests(w, "RATE_LIMITED", "too many like actions", retryAfter)
			return
		}
	}

	trackID := chi.URLParam(r, "track_id")
	state, err := op(r.Context(), identity.UserID, trackID)
	if err != nil {
		switch {
		case errors.Is(err, likessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid track id")
		case errors.Is(err, likessvc.ErrTrackNotFound):
			writeNotFound(w, "TRACK_NOT_FOUND", "track not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update like")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikeResponse{
		TrackID:   trackID,
		Liked:     state.Liked,
		LikeCount: state.LikeCount,
	})
}
