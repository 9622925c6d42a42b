// Package tracks serves public track details and the streaming path.
package tracks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrTrackNotFound  = errors.New("track not found")
	ErrNoAudio        = errors.New("track has no audio object")
	ErrTrackNotPublic = errors.New("track not public")
)

type TrackStore interface {
	Get(ctx context.Context, trackID string) (pgrepo.TrackRecord, error)
	IncrementStreamCount(ctx context.Context, trackID string) (int64, error)
}

type ObjectSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type StreamStats interface {
	BumpStreamStat(ctx context.Context, trackID string, day time.Time) (int64, error)
}

type Service struct {
	tracks TrackStore
	signer ObjectSigner
	stats  StreamStats
	urlTTL time.Duration
	logger *zap.Logger
	now    func() time.Time
}

type Dependencies struct {
	Tracks TrackStore
	Signer ObjectSigner
	Stats  StreamStats
	URLTTL time.Duration
	Logger *zap.Logger
}

type StreamGrant struct {
	TrackID     string
	URL         string
	ExpiresIn   time.Duration
	StreamCount int64
}

func NewService(deps Dependencies) *Service {
	ttl := deps.URLTTL
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		tracks: deps.Tracks,
		signer: deps.Signer,
		stats:  deps.Stats,
		urlTTL: ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the public view of a track. Unapproved and inactive tracks
// stay hidden.
func (s *Service) Get(ctx context.Context, trackID string) (pgrepo.TrackRecord, error) {
	if strings.TrimSpace(trackID) == "" {
		return pgrepo.TrackRecord{}, ErrValidation
	}

	track, err := s.tracks.Get(ctx, trackID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTrackNotFound) {
			return pgrepo.TrackRecord{}, ErrTrackNotFound
		}
		return pgrepo.TrackRecord{}, fmt.Errorf("load track: %w", err)
	}

	if !track.Approved || !track.Active {
		return pgrepo.TrackRecord{}, ErrTrackNotPublic
	}

	return track, nil
}

// Stream signs a short-lived URL for the track's audio object and counts the
// play. The day tally in redis is best effort.
func (s *Service) Stream(ctx context.Context, trackID string) (StreamGrant, error) {
	track, err := s.Get(ctx, trackID)
	if err != nil {
		return StreamGrant{}, err
	}
	if track.AudioKey == "" {
		return StreamGrant{}, ErrNoAudio
	}

	signedURL, err := s.signer.PresignGet(ctx, track.AudioKey, s.urlTTL)
	if err != nil {
		return StreamGrant{}, fmt.Errorf("sign stream url: %w", err)
	}

	count, err := s.tracks.IncrementStreamCount(ctx, track.ID)
	if err != nil {
		return StreamGrant{}, fmt.Errorf("count stream: %w", err)
	}

	if s.stats != nil {
		if _, err := s.stats.BumpStreamStat(ctx, track.ID, s.now()); err != nil {
			s.logger.Warn("bump stream stat", zap.String("track_id", track.ID), zap.Error(err))
		}
	}

	return StreamGrant{
		TrackID:     track.ID,
		URL:         signedURL,
		ExpiresIn:   s.urlTTL,
		StreamCount: count,
	}, nil
}
