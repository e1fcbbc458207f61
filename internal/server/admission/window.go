package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlidingWindow records one hit for key if fewer than p.Max hits fall inside
// the trailing p.Window, and reports the resulting count.
type SlidingWindow interface {
	Take(ctx context.Context, key string, p Policy) (allowed bool, count int64, err error)
}

// slidingWindowScript keeps one sorted-set member per admitted request,
// scored by its arrival time in milliseconds. Denied requests are not
// recorded.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return {0, count}
end
redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window)
return {1, count + 1}
`)

// RedisWindow is a SlidingWindow shared by every instance pointing at the
// same redis.
type RedisWindow struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisWindow(client redis.UniversalClient) *RedisWindow {
	return &RedisWindow{client: client, now: time.Now}
}

func (w *RedisWindow) Take(ctx context.Context, key string, p Policy) (bool, int64, error) {
	now := w.now().UnixMilli()
	res, err := slidingWindowScript.Run(ctx, w.client, []string{key},
		now, p.Window.Milliseconds(), p.Max, uuid.NewString()).Result()
	if err != nil {
		return false, 0, fmt.Errorf("sliding window script: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		return false, 0, fmt.Errorf("unexpected redis script result: %v", res)
	}
	allowed, _ := vals[0].(int64)
	count, _ := vals[1].(int64)
	return allowed == 1, count, nil
}

// Ping checks the redis connection.
func (w *RedisWindow) Ping(ctx context.Context) error {
	return w.client.Ping(ctx).Err()
}
