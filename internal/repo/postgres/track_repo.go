package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrTrackNotFound = errors.New("track not found")

type TrackRepo struct {
	pool *pgxpool.Pool
}

type TrackRecord struct {
	ID          string
	Title       string
	Description string
	Genre       string
	Price       decimal.Decimal
	Approved    bool
	Active      bool
	ArtistID    string
	ArtistName  string
	AudioKey    string
	ArtworkKey  string
	DurationSec int
	StreamCount int64
	SalesCount  int64
	LikeCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewTrackRepo(pool *pgxpool.Pool) *TrackRepo {
	return &TrackRepo{pool: pool}
}

const trackColumns = `
	t.id,
	t.title,
	COALESCE(t.description, ''),
	t.genre,
	t.price,
	t.approved,
	t.active,
	t.artist_id,
	COALESCE(u.username, ''),
	COALESCE(t.audio_key, ''),
	COALESCE(t.artwork_key, ''),
	COALESCE(t.duration_sec, 0),
	t.stream_count,
	t.sales_count,
	t.like_count,
	t.created_at,
	t.updated_at`

func (r *TrackRepo) Get(ctx context.Context, trackID string) (TrackRecord, error) {
	if r.pool == nil {
		return TrackRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if trackID == "" {
		return TrackRecord{}, fmt.Errorf("invalid track id")
	}

	rec, err := scanTrackRow(r.pool.QueryRow(ctx, `
SELECT`+trackColumns+`
FROM tracks t
LEFT JOIN users u ON u.id = t.artist_id
WHERE t.id = $1
`, trackID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TrackRecord{}, ErrTrackNotFound
		}
		return TrackRecord{}, fmt.Errorf("get track: %w", err)
	}

	return rec, nil
}

// IncrementStreamCount bumps the play counter and returns the new value.
func (r *TrackRepo) IncrementStreamCount(ctx context.Context, trackID string) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if trackID == "" {
		return 0, fmt.Errorf("invalid track id")
	}

	var count int64
	err := r.pool.QueryRow(ctx, `
UPDATE tracks
SET stream_count = stream_count + 1, updated_at = NOW()
WHERE id = $1
RETURNING stream_count
`, trackID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrTrackNotFound
		}
		return 0, fmt.Errorf("increment stream count: %w", err)
	}

	return count, nil
}

func scanTrackRow(row pgx.Row) (TrackRecord, error) {
	var rec TrackRecord
	if err := row.Scan(
		&rec.ID,
		&rec.Title,
		&rec.Description,
		&rec.Genre,
		&rec.Price,
		&rec.Approved,
		&rec.Active,
		&rec.ArtistID,
		&rec.ArtistName,
		&rec.AudioKey,
		&rec.ArtworkKey,
		&rec.DurationSec,
		&rec.StreamCount,
		&rec.SalesCount,
		&rec.LikeCount,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return TrackRecord{}, err
	}
	return rec, nil
}
