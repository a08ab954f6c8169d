package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisNotificationQueue backs the notification feed with a Redis
// stream: invitation dispatch appends, the worker consumes through a
// consumer group.
type RedisNotificationQueue struct {
	rdb *redis.Client
}

func NewRedisNotificationQueue(rdb *redis.Client) *RedisNotificationQueue {
	return &RedisNotificationQueue{rdb: rdb}
}

func streamKey(stream string) string {
	return "stream:" + stream
}

func (q *RedisNotificationQueue) Publish(ctx context.Context, stream string, payload []byte) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey(stream),
		MaxLen: 1000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"data": payload},
	}).Err()
}

func (q *RedisNotificationQueue) Subscribe(
	ctx context.Context,
	stream, group string,
	handler func(ctx context.Context, messageID string, data []byte) error,
) error {
	key := streamKey(stream)
	if err := q.rdb.XGroupCreateMkStream(ctx, key, group, "0").Err(); err != nil {
		// BUSYGROUP means the group already exists, which is fine on
		// restart.
		if !strings.Contains(err.Error(), "BUSYGROUP") {
			return err
		}
	}
	consumer := group + "-consumer"
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{key, ">"},
			Count:    16,
			Block:    0,
		}).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			slog.Error("queue - subscribe - read group failed", "stream", stream, "err", err)
			continue
		}
		for _, s := range res {
			for _, msg := range s.Messages {
				data, _ := msg.Values["data"].(string)
				if err := handler(ctx, msg.ID, []byte(data)); err != nil {
					slog.Error("queue - subscribe - handler failed", "stream", stream, "message_id", msg.ID, "err", err)
				}
			}
		}
	}
}

func (q *RedisNotificationQueue) Acknowledge(ctx context.Context, stream, group, messageID string) error {
	return q.rdb.XAck(ctx, streamKey(stream), group, messageID).Err()
}

func (q *RedisNotificationQueue) Delete(ctx context.Context, stream, messageID string) error {
	return q.rdb.XDel(ctx, streamKey(stream), messageID).Err()
}
