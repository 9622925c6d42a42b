package tracks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pgrepo "github.com/Aizen-Agency/dreamster-be/internal/repo/postgres"
)

type stubTrackStore struct {
	track       pgrepo.TrackRecord
	getErr      error
	streamCount int64
}

func (s *stubTrackStore) Get(_ context.Context, _ string) (pgrepo.TrackRecord, error) {
	return s.track, s.getErr
}

func (s *stubTrackStore) IncrementStreamCount(_ context.Context, _ string) (int64, error) {
	s.streamCount++
	return s.streamCount, nil
}

type stubSigner struct {
	url     string
	lastKey string
	lastTTL time.Duration
	err     error
}

func (s *stubSigner) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.lastKey = key
	s.lastTTL = ttl
	return s.url, s.err
}

type stubStats struct {
	bumps int
}

func (s *stubStats) BumpStreamStat(_ context.Context, _ string, _ time.Time) (int64, error) {
	s.bumps++
	return int64(s.bumps), nil
}

func publicTrack() pgrepo.TrackRecord {
	return pgrepo.TrackRecord{
		ID:       "track-1",
		Title:    "Neon Drift",
		Price:    decimal.RequireFromString("9.99"),
		Approved: true,
		Active:   true,
		AudioKey: "audio/track-1.mp3",
	}
}

func TestStreamSignsURLAndCountsPlay(t *testing.T) {
	store := &stubTrackStore{track: publicTrack()}
	signer := &stubSigner{url: "https://s3.example/signed"}
	stats := &stubStats{}
	svc := NewService(Dependencies{
		Tracks: store,
		Signer: signer,
		Stats:  stats,
		URLTTL: 5 * time.Minute,
	})

	grant, err := svc.Stream(context.Background(), "track-1")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if grant.URL != "https://s3.example/signed" {
		t.Fatalf("url = %q", grant.URL)
	}
	if signer.lastKey != "audio/track-1.mp3" {
		t.Fatalf("signed key = %q", signer.lastKey)
	}
	if signer.lastTTL != 5*time.Minute {
		t.Fatalf("signed ttl = %v", signer.lastTTL)
	}
	if grant.StreamCount != 1 {
		t.Fatalf("stream count = %d, want 1", grant.StreamCount)
	}
	if stats.bumps != 1 {
		t.Fatalf("stat bumps = %d, want 1", stats.bumps)
	}
}

func TestStreamRejectsHiddenTrack(t *testing.T) {
	track := publicTrack()
	track.Approved = false
	svc := NewService(Dependencies{Tracks: &stubTrackStore{track: track}, Signer: &stubSigner{}})

	if _, err := svc.Stream(context.Background(), "track-1"); !errors.Is(err, ErrTrackNotPublic) {
		t.Fatalf("expected ErrTrackNotPublic, got %v", err)
	}
}

func TestStreamRejectsTrackWithoutAudio(t *testing.T) {
	track := publicTrack()
	track.AudioKey = ""
	svc := NewService(Dependencies{Tracks: &stubTrackStore{track: track}, Signer: &stubSigner{}})

	if _, err := svc.Stream(context.Background(), "track-1"); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestGetMapsMissingTrack(t *testing.T) {
	svc := NewService(Dependencies{Tracks: &stubTrackStore{getErr: pgrepo.ErrTrackNotFound}, Signer: &stubSigner{}})

	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("expected ErrTrackNotFound, got %v", err)
	}
}
