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

type OwnershipRepo struct {
	pool *pgxpool.Pool
}

// OwnedTrackRecord is an ownership row joined with the track and its artist
// for the library listing.
type OwnedTrackRecord struct {
	TrackID       string
	Title         string
	Genre         string
	Price         decimal.Decimal
	ArtistID      string
	ArtistName    string
	DurationSec   int
	TransactionID string
	PurchasedAt   time.Time
}

func NewOwnershipRepo(pool *pgxpool.Pool) *OwnershipRepo {
	return &OwnershipRepo{pool: pool}
}

func (r *OwnershipRepo) Owns(ctx context.Context, userID, trackID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if userID == "" || trackID == "" {
		return false, fmt.Errorf("invalid ownership lookup payload")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM track_ownerships
WHERE user_id = $1 AND track_id = $2
LIMIT 1
`, userID, trackID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup ownership: %w", err)
	}

	return true, nil
}

func (r *OwnershipRepo) ListByUser(ctx context.Context, userID string, limit int) ([]OwnedTrackRecord, error) {
	if r.pool == nil {
		return []OwnedTrackRecord{}, nil
	}
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	o.track_id,
	t.title,
	t.genre,
	t.price,
	t.artist_id,
	COALESCE(u.username, ''),
	t.duration_sec,
	o.transaction_id,
	o.purchased_at
FROM track_ownerships o
JOIN tracks t ON t.id = o.track_id
LEFT JOIN users u ON u.id = t.artist_id
WHERE o.user_id = $1
ORDER BY o.purchased_at DESC, o.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list owned tracks: %w", err)
	}
	defer rows.Close()

	items := make([]OwnedTrackRecord, 0, limit)
	for rows.Next() {
		var rec OwnedTrackRecord
		if err := rows.Scan(
			&rec.TrackID,
			&rec.Title,
			&rec.Genre,
			&rec.Price,
			&rec.ArtistID,
			&rec.ArtistName,
			&rec.DurationSec,
			&rec.TransactionID,
			&rec.PurchasedAt,
		); err != nil {
			return nil, fmt.Errorf("scan owned track: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate owned tracks: %w", rows.Err())
	}

	return items, nil
}
