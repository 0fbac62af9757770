package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "harmony:room-events"

// Relay carries messages between server instances. Without one the hub
// delivers locally only.
type Relay interface {
	Publish(ctx context.Context, msg Message) error
	// Subscribe blocks, handing every received message to deliver, until
	// ctx is done.
	Subscribe(ctx context.Context, deliver func(Message)) error
}

type RedisRelay struct {
	rdb     *redis.Client
	channel string
}

func NewRedisRelay(rdb *redis.Client, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{rdb: rdb, channel: channel}
}

func (r *RedisRelay) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, payload).Err()
}

func (r *RedisRelay) Subscribe(ctx context.Context, deliver func(Message)) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed before reporting ready
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	slog.Info("realtime relay subscribed", "channel", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				slog.Warn("dropping malformed relay message", "error", err)
				continue
			}
			deliver(msg)
		}
	}
}
