package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript admits or rejects a hit in one round trip. A rejected
// hit leaves the counter untouched.
var fixedWindowScript = redis.NewScript(`
local count = redis.call('GET', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if (not count) or ttl <= 0 then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[1])
  return {1, tonumber(ARGV[1]), 1}
end
count = tonumber(count)
if count >= tonumber(ARGV[2]) then
  return {count, ttl, 0}
end
count = redis.call('INCR', KEYS[1])
return {count, ttl, 1}
`)

// RedisStore shares buckets between service instances. Window expiry is
// driven by the Redis key TTL.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisStore builds a store whose keys are namespaced by prefix.
func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, opts Options, now time.Time) (Bucket, bool, error) {
	windowMs := opts.Window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}

	res, err := fixedWindowScript.Run(ctx, s.client, []string{s.key(key)}, windowMs, opts.Max).Int64Slice()
	if err != nil {
		return Bucket{}, false, err
	}
	if len(res) != 3 {
		return Bucket{}, false, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}

	bucket := Bucket{
		Count:   int(res[0]),
		ResetAt: now.Add(time.Duration(res[1]) * time.Millisecond),
	}
	return bucket, res[2] == 1, nil
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
