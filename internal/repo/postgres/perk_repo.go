package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PerkRepo struct {
	pool *pgxpool.Pool
}

// OwnedPerkRecord is an active perk the user unlocked by owning its track.
type OwnedPerkRecord struct {
	PerkID      string
	TrackID     string
	TrackTitle  string
	Title       string
	Description string
	PurchasedAt time.Time
	CreatedAt   time.Time
}

func NewPerkRepo(pool *pgxpool.Pool) *PerkRepo {
	return &PerkRepo{pool: pool}
}

// ListActiveForOwner returns active perks on tracks the user owns. Perk
// access is derived from ownership, there are no per-user unlock rows.
func (r *PerkRepo) ListActiveForOwner(ctx context.Context, userID string, limit int) ([]OwnedPerkRecord, error) {
	if r.pool == nil {
		return []OwnedPerkRecord{}, nil
	}
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 200
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	p.id,
	p.track_id,
	t.title,
	p.title,
	COALESCE(p.description, ''),
	o.purchased_at,
	p.created_at
FROM track_perks p
JOIN track_ownerships o ON o.track_id = p.track_id
JOIN tracks t ON t.id = p.track_id
WHERE o.user_id = $1
  AND p.active = TRUE
ORDER BY o.purchased_at DESC, p.created_at DESC, p.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list owned perks: %w", err)
	}
	defer rows.Close()

	items := make([]OwnedPerkRecord, 0, limit)
	for rows.Next() {
		var rec OwnedPerkRecord
		if err := rows.Scan(
			&rec.PerkID,
			&rec.TrackID,
			&rec.TrackTitle,
			&rec.Title,
			&rec.Description,
			&rec.PurchasedAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan owned perk: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate owned perks: %w", rows.Err())
	}

	return items, nil
}
