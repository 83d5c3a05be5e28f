package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers which reminders were already sent.
type Deduper interface {
	// Claim reports whether key was not claimed before.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

const reminderKeyTTL = 48 * time.Hour

type redisDeduper struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisDeduper(rdb redis.Cmdable) Deduper {
	return &redisDeduper{rdb: rdb, ttl: reminderKeyTTL}
}

func (d *redisDeduper) Claim(ctx context.Context, key string) (bool, error) {
	return d.rdb.SetNX(ctx, key, time.Now().Unix(), d.ttl).Result()
}

func (d *redisDeduper) Release(ctx context.Context, key string) error {
	return d.rdb.Del(ctx, key).Err()
}

// nopDeduper claims everything. Without Redis a second scan on the same day
// sends duplicates.
type nopDeduper struct{}

func NewNopDeduper() Deduper { return nopDeduper{} }

func (nopDeduper) Claim(context.Context, string) (bool, error) { return true, nil }

func (nopDeduper) Release(context.Context, string) error { return nil }
