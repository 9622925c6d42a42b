package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrackLikeRepo struct {
	pool *pgxpool.Pool
}

func NewTrackLikeRepo(pool *pgxpool.Pool) *TrackLikeRepo {
	return &TrackLikeRepo{pool: pool}
}

// Like inserts the like and bumps the denormalized counter. Returns false
// without touching the counter when the like already exists.
func (r *TrackLikeRepo) Like(ctx context.Context, userID, trackID string) (bool, int64, error) {
	if r.pool == nil {
		return false, 0, fmt.Errorf("postgres pool is nil")
	}
	if userID == "" || trackID == "" {
		return false, 0, fmt.Errorf("invalid like payload")
	}

	created := false
	var likeCount int64
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(txCtx, `
INSERT INTO track_likes (
	id,
	user_id,
	track_id,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id, track_id) DO NOTHING
`, uuid.NewString(), userID, trackID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrTrackNotFound
			}
			return fmt.Errorf("insert like: %w", err)
		}

		created = result.RowsAffected() > 0
		if !created {
			return tx.QueryRow(txCtx, `
SELECT like_count FROM tracks WHERE id = $1
`, trackID).Scan(&likeCount)
		}

		err = tx.QueryRow(txCtx, `
UPDATE tracks
SET like_count = like_count + 1, updated_at = NOW()
WHERE id = $1
RETURNING like_count
`, trackID).Scan(&likeCount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTrackNotFound
			}
			return fmt.Errorf("bump like count: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	return created, likeCount, nil
}

// Unlike removes the like. Returns false when there was nothing to remove.
func (r *TrackLikeRepo) Unlike(ctx context.Context, userID, trackID string) (bool, int64, error) {
	if r.pool == nil {
		return false, 0, fmt.Errorf("postgres pool is nil")
	}
	if userID == "" || trackID == "" {
		return false, 0, fmt.Errorf("invalid unlike payload")
	}

	removed := false
	var likeCount int64
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(txCtx, `
DELETE FROM track_likes
WHERE user_id = $1 AND track_id = $2
`, userID, trackID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}

		removed = result.RowsAffected() > 0
		if !removed {
			return tx.QueryRow(txCtx, `
SELECT like_count FROM tracks WHERE id = $1
`, trackID).Scan(&likeCount)
		}

		err = tx.QueryRow(txCtx, `
UPDATE tracks
SET like_count = GREATEST(like_count - 1, 0), updated_at = NOW()
WHERE id = $1
RETURNING like_count
`, trackID).Scan(&likeCount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTrackNotFound
			}
			return fmt.Errorf("drop like count: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, ErrTrackNotFound
		}
		return false, 0, err
	}

	return removed, likeCount, nil
}

func (r *TrackLikeRepo) Exists(ctx context.Context, userID, trackID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if userID == "" || trackID == "" {
		return false, fmt.Errorf("invalid like lookup payload")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM track_likes
WHERE user_id = $1 AND track_id = $2
LIMIT 1
`, userID, trackID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup like: %w", err)
	}

	return true, nil
}
