package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	ownsPrefix       = "owns:"
	streamStatPrefix = "streams:day:"

	streamStatTTL = 48 * time.Hour
)

// CacheRepo holds short-lived derived state: ownership lookups hot on the
// stream path and per-day stream tallies. Postgres stays the source of
// truth for both.
type CacheRepo struct {
	client *goredis.Client
}

func NewCacheRepo(client *goredis.Client) *CacheRepo {
	return &CacheRepo{client: client}
}

// CachedOwns reports the cached ownership flag. found=false means the key
// is absent and the caller must hit the database.
func (r *CacheRepo) CachedOwns(ctx context.Context, userID, trackID string) (bool, bool, error) {
	if r.client == nil {
		return false, false, nil
	}
	if userID == "" || trackID == "" {
		return false, false, fmt.Errorf("invalid ownership cache lookup")
	}

	val, err := r.client.Get(ctx, ownsKey(userID, trackID)).Result()
	if err == goredis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("get ownership cache: %w", err)
	}

	return val == "1", true, nil
}

func (r *CacheRepo) SetOwns(ctx context.Context, userID, trackID string, owns bool, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if userID == "" || trackID == "" || ttl <= 0 {
		return fmt.Errorf("invalid ownership cache payload")
	}

	val := "0"
	if owns {
		val = "1"
	}
	if err := r.client.Set(ctx, ownsKey(userID, trackID), val, ttl).Err(); err != nil {
		return fmt.Errorf("set ownership cache: %w", err)
	}
	return nil
}

// InvalidateOwns drops the cached flag so a fresh purchase is visible
// immediately.
func (r *CacheRepo) InvalidateOwns(ctx context.Context, userID, trackID string) error {
	if r.client == nil {
		return nil
	}
	if userID == "" || trackID == "" {
		return fmt.Errorf("invalid ownership cache payload")
	}

	if err := r.client.Del(ctx, ownsKey(userID, trackID)).Err(); err != nil {
		return fmt.Errorf("invalidate ownership cache: %w", err)
	}
	return nil
}

// BumpStreamStat tallies one play for the track under today's key.
func (r *CacheRepo) BumpStreamStat(ctx context.Context, trackID string, day time.Time) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	if trackID == "" {
		return 0, fmt.Errorf("invalid stream stat payload")
	}

	key := streamStatPrefix + day.UTC().Format("2006-01-02") + ":" + trackID
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("bump stream stat: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, streamStatTTL).Err(); err != nil {
			return 0, fmt.Errorf("set stream stat ttl: %w", err)
		}
	}

	return count, nil
}

func ownsKey(userID, trackID string) string {
	return ownsPrefix + userID + ":" + trackID
}
