package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/Aizen-Agency/dreamster-be/internal/services/auth"
	likessvc "github.com/Aizen-Agency/dreamster-be/internal/services/likes"
	"github.com/Aizen-Agency/dreamster-be/internal/transport/http/dto"
)

type stubLikeStore struct {
	liked map[string]bool
}

func (s *stubLikeStore) key(userID, trackID string) string { return userID + ":" + trackID }

func (s *stubLikeStore) Like(_ context.Context, userID, trackID string) (bool, int64, error) {
	created := !s.liked[s.key(userID, trackID)]
	s.liked[s.key(userID, trackID)] = true
	return created, 1, nil
}

func (s *stubLikeStore) Unlike(_ context.Context, userID, trackID string) (bool, int64, error) {
	removed := s.liked[s.key(userID, trackID)]
	delete(s.liked, s.key(userID, trackID))
	return removed, 0, nil
}

func (s *stubLikeStore) Exists(_ context.Context, userID, trackID string) (bool, error) {
	return s.liked[s.key(userID, trackID)], nil
}

func newLikesHandler() *LikesHandler {
	svc := likessvc.NewService(likessvc.Dependencies{Likes: &stubLikeStore{liked: map[string]bool{}}})
	return NewLikesHandler(svc, nil)
}

func getLikeStatus(t *testing.T, handler *LikesHandler, trackID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/v1/tracks/"+trackID+"/like", nil)
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("track_id", trackID)
	reqCtx := context.WithValue(req.Context(), chi.RouteCtxKey, ctx)
	reqCtx = authsvc.WithIdentity(reqCtx, authsvc.Identity{UserID: "user-1", Role: "fan"})
	req = req.WithContext(reqCtx)

	rec := httptest.NewRecorder()
	handler.Status(rec, req)
	return rec
}

func TestLikeStatusReflectsLike(t *testing.T) {
	handler := newLikesHandler()

	rec := getLikeStatus(t, handler, "track-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp dto.LikeStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Liked {
		t.Fatalf("liked = true before any like")
	}

	if _, err := handler.likes.Like(context.Background(), "user-1", "track-1"); err != nil {
		t.Fatalf("like: %v", err)
	}

	rec = getLikeStatus(t, handler, "track-1")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Liked || resp.TrackID != "track-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLikeStatusRequiresAuth(t *testing.T) {
	handler := newLikesHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/tracks/track-1/like", nil)
	rec := httptest.NewRecorder()
	handler.Status(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
