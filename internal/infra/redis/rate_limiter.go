package redis

import (
	"context"
	"strconv"
	"time"
)

// RateLimiter counts hits per client in wall-clock aligned windows; every
// window has its own key.
type RateLimiter struct {
	client RedisClient
	now    func() time.Time
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if window <= 0 {
		window = time.Minute
	}
	bucket := r.now().UnixNano() / int64(window)
	k := key + ":" + strconv.FormatInt(bucket, 10)

	n, err := r.client.Incr(ctx, k)
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := r.client.Expire(ctx, k, window); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ClientKey namespaces limiter counters by client address.
func ClientKey(ip string) string {
	return "soulsync:ratelimit:" + ip
}
