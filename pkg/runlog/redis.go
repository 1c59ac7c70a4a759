package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps runs in a Redis list trimmed to a fixed length. The
// newest run is at the head.
type RedisStore struct {
	client   redis.Cmdable
	key      string
	capacity int
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.Cmdable, cfg Config) (*RedisStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	key := cfg.RedisKey
	if key == "" {
		key = "automations:runs"
	}
	return &RedisStore{client: client, key: key, capacity: capacity}, nil
}

func (s *RedisStore) Record(ctx context.Context, run Run) error {
	data, err := json.Marshal(normalize(run))
	if err != nil {
		return errors.Join(ErrRecordFailed, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		pipe.LTrim(ctx, s.key, 0, int64(s.capacity-1))
		return nil
	})
	if err != nil {
		return errors.Join(ErrRecordFailed, err)
	}
	return nil
}

// Latest returns up to n runs, newest first. n <= 0 returns all kept runs.
func (s *RedisStore) Latest(ctx context.Context, n int) ([]Run, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}

	items, err := s.client.LRange(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, errors.Join(ErrListFailed, err)
	}

	runs := make([]Run, 0, len(items))
	for i, item := range items {
		var run Run
		if err := json.Unmarshal([]byte(item), &run); err != nil {
			return nil, errors.Join(ErrListFailed, fmt.Errorf("entry %d: %w", i, err))
		}
		runs = append(runs, run)
	}
	return runs, nil
}
