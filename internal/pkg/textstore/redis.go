package textstore

import (
	"context"
	"time"

	pkgredis "github.com/studyhelper/core/internal/pkg/redis"
)

const redisKeyPrefix = "study:text:"

// Redis is a Store backed by a shared Redis instance. TTL is enforced by
// key expiry.
type Redis struct {
	rc  *pkgredis.Client
	ttl time.Duration
}

// NewRedis creates a Redis-backed store. ttl <= 0 means keys never expire.
func NewRedis(rc *pkgredis.Client, ttl time.Duration) *Redis {
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{rc: rc, ttl: ttl}
}

func (r *Redis) Save(ctx context.Context, id, text string) error {
	return r.rc.Set(ctx, redisKeyPrefix+id, text, r.ttl)
}

func (r *Redis) Get(ctx context.Context, id string) (string, bool, error) {
	val, err := r.rc.Get(ctx, redisKeyPrefix+id)
	if err != nil {
		return "", false, err
	}
	if val == "" {
		return "", false, nil
	}
	return val, true, nil
}
