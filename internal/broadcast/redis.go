package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRelay publishes events on Redis so every server instance delivers
// them to its own Hub.
type RedisRelay struct {
	rdb    *redis.Client
	prefix string
	hub    *Hub
	logger *slog.Logger
}

func NewRedisRelay(rdb *redis.Client, prefix string, hub *Hub, logger *slog.Logger) *RedisRelay {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRelay{rdb: rdb, prefix: prefix, hub: hub, logger: logger}
}

func (r *RedisRelay) Channel(boardID uuid.UUID) string {
	return fmt.Sprintf("%s:board:%s", r.prefix, boardID)
}

func (r *RedisRelay) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return r.rdb.Publish(ctx, r.Channel(ev.BoardID), data).Err()
}

// Run relays published events into the local Hub until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.rdb.PSubscribe(ctx, r.prefix+":board:*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	r.logger.Info("redis relay subscribed", "pattern", r.prefix+":board:*")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.logger.Warn("dropping malformed event", "channel", msg.Channel, "error", err)
				continue
			}
			_ = r.hub.Publish(ctx, ev)
		}
	}
}
