package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/og-image-service/internal/repository"
)

const rateLimitPrefix = "og:ratelimit:"

// RateLimiterImpl is a fixed-window counter per upstream host backed by Redis.
type RateLimiterImpl struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

var _ repository.RateLimiter = (*RateLimiterImpl)(nil)

// NewRateLimiter allows limit fetches per host in each window.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiterImpl {
	return &RateLimiterImpl{client: client, limit: limit, window: window}
}

func (r *RateLimiterImpl) generateKey(host string) string {
	return fmt.Sprintf("%s%s", rateLimitPrefix, strings.ToLower(host))
}

// Allow increments the host's counter and reports whether it is still within the limit.
// The window starts with the first hit. Any hit that finds the counter without a TTL sets one.
func (r *RateLimiterImpl) Allow(ctx context.Context, host string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	key := r.generateKey(host)

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	if _, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	}); err != nil {
		return false, err
	}

	// PTTL reports -1 for a key without expiry.
	if pttl.Val() < 0 {
		if err := r.client.PExpire(ctx, key, r.window).Err(); err != nil {
			return false, err
		}
	}
	return incr.Val() <= r.limit, nil
}

// Reset clears the host's counter.
func (r *RateLimiterImpl) Reset(ctx context.Context, host string) error {
	return r.client.Del(ctx, r.generateKey(host)).Err()
}
