// Package likes manages per-user track likes and the denormalized counter.
package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrTrackNotFound = errors.New("track not found")
)

type LikeStore interface {
	Like(ctx context.Context, userID, trackID string) (bool, int64, error)
	Unlike(ctx context.Context, userID, trackID string) (bool, int64, error)
	Exists(ctx context.Context, userID, trackID string) (bool, error)
}

type Service struct {
	likes         LikeStore
	notFoundMatch func(error) bool
}

type Dependencies struct {
	Likes LikeStore
	// NotFoundMatch recognizes the store's missing-track error so the
	// service can map it without importing the storage package.
	NotFoundMatch func(error) bool
}

type LikeState struct {
	Liked     bool
	Changed   bool
	LikeCount int64
}

func NewService(deps Dependencies) *Service {
	match := deps.NotFoundMatch
	if match == nil {
		match = func(error) bool { return false }
	}
	return &Service{likes: deps.Likes, notFoundMatch: match}
}

// Like records the like. Liking an already-liked track is a no-op reported
// through Changed=false.
func (s *Service) Like(ctx context.Context, userID, trackID string) (LikeState, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(trackID) == "" {
		return LikeState{}, ErrValidation
	}

	created, count, err := s.likes.Like(ctx, userID, trackID)
	if err != nil {
		if s.notFoundMatch(err) {
			return LikeState{}, ErrTrackNotFound
		}
		return LikeState{}, fmt.Errorf("like track: %w", err)
	}

	return LikeState{Liked: true, Changed: created, LikeCount: count}, nil
}

// Unlike removes the like; removing a like that never existed is a no-op.
func (s *Service) Unlike(ctx context.Context, userID, trackID string) (LikeState, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(trackID) == "" {
		return LikeState{}, ErrValidation
	}

	removed, count, err := s.likes.Unlike(ctx, userID, trackID)
	if err != nil {
		if s.notFoundMatch(err) {
			return LikeState{}, ErrTrackNotFound
		}
		return LikeState{}, fmt.Errorf("unlike track: %w", err)
	}

	return LikeState{Liked: false, Changed: removed, LikeCount: count}, nil
}

func (s *Service) Liked(ctx context.Context, userID, trackID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(trackID) == "" {
		return false, ErrValidation
	}

	liked, err := s.likes.Exists(ctx, userID, trackID)
	if err != nil {
		return false, fmt.Errorf("lookup like: %w", err)
	}
	return liked, nil
}
