package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceKey = "presence:doctors"

// RedisPresenceStore keeps doctor availability in one ZSET scored by the
// last heartbeat timestamp. Stale members are trimmed on read, so an
// app that dies without unregistering simply ages out.
type RedisPresenceStore struct {
	rdb *redis.Client
}

func NewRedisPresenceStore(rdb *redis.Client) *RedisPresenceStore {
	return &RedisPresenceStore{rdb: rdb}
}

func (p *RedisPresenceStore) MarkOnline(ctx context.Context, doctorID string, ttl time.Duration) error {
	now := time.Now().Unix()
	if err := p.rdb.ZAdd(ctx, presenceKey, redis.Z{
		Score:  float64(now),
		Member: doctorID,
	}).Err(); err != nil {
		return err
	}
	// Expire the whole set so an idle deployment does not hold the key
	// forever.
	return p.rdb.Expire(ctx, presenceKey, ttl*2).Err()
}

func (p *RedisPresenceStore) IsOnline(ctx context.Context, doctorID string) (bool, error) {
	p.trimStale(ctx)
	_, err := p.rdb.ZScore(ctx, presenceKey, doctorID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *RedisPresenceStore) ListOnline(ctx context.Context) ([]string, error) {
	p.trimStale(ctx)
	return p.rdb.ZRange(ctx, presenceKey, 0, -1).Result()
}

func (p *RedisPresenceStore) trimStale(ctx context.Context) {
	threshold := time.Now().Add(-90 * time.Second).Unix()
	p.rdb.ZRemRangeByScore(ctx, presenceKey, "-inf", strconv.FormatInt(threshold, 10))
}
