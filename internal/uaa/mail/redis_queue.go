package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list that backs the queue.
const DefaultRedisKey = "uaa:mail:queue"

// boundedPush pushes ARGV[1] only while the list holds fewer than ARGV[2]
// entries. Returns 1 when pushed.
var boundedPush = redis.NewScript(`
if redis.call("LLEN", KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call("LPUSH", KEYS[1], ARGV[1])
return 1
`)

// RedisQueue is a Redis list shared by every replica. Producers LPUSH,
// workers BRPOP, so jobs come out oldest first. Jobs left in the list at
// Close stay there for other replicas or the next start.
type RedisQueue struct {
	client      redis.UniversalClient
	key         string
	capacity    int
	pollTimeout time.Duration
	closed      atomic.Bool
}

func NewRedisQueue(client redis.UniversalClient, key string, capacity int) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{
		client:      client,
		key:         key,
		capacity:    max(capacity, 1),
		pollTimeout: time.Second,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("mail: encode job: %w", err)
	}

	pushed, err := boundedPush.Run(ctx, q.client, []string{q.key}, data, q.capacity).Int()
	if err != nil {
		return fmt.Errorf("mail: push job: %w", err)
	}
	if pushed == 0 {
		return ErrQueueFull
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	for {
		if q.closed.Load() {
			return Job{}, ErrQueueClosed
		}

		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Job{}, ctx.Err()
			}
			return Job{}, fmt.Errorf("mail: pop job: %w", err)
		}

		// res is [key, value]
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return Job{}, fmt.Errorf("mail: decode job: %w", err)
		}
		return job, nil
	}
}

// Close does not close the Redis client, which the caller owns.
func (q *RedisQueue) Close() error {
	q.closed.Store(true)
	return nil
}

// Len is the current length of the shared list.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
