package realtime

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Sequencer hands out the per-room monotonic counter attached to playback
// events.
type Sequencer interface {
	Next(ctx context.Context, room string) (int64, error)
}

type LocalSequencer struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func NewLocalSequencer() *LocalSequencer {
	return &LocalSequencer{seqs: make(map[string]int64)}
}

func (s *LocalSequencer) Next(_ context.Context, room string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[room]++
	return s.seqs[room], nil
}

// RedisSequencer shares counters between instances through INCR.
type RedisSequencer struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSequencer(rdb *redis.Client) *RedisSequencer {
	return &RedisSequencer{rdb: rdb, prefix: "harmony:room-seq:"}
}

func (s *RedisSequencer) Next(ctx context.Context, room string) (int64, error) {
	return s.rdb.Incr(ctx, s.prefix+room).Result()
}
