package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateStore coordinates rate limiting counters for a specific key.
type RateStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, ttl time.Duration, err error)
}

// memoryRateStore provides process-local rate limiting. It is concurrency-safe.
type memoryRateStore struct {
	mu    sync.Mutex
	data  map[string]*memoryCounter
	clock func() time.Time
}

type memoryCounter struct {
	count     int
	windowEnd time.Time
}

// NewMemoryRateStore constructs an in-memory rate store.
func NewMemoryRateStore() RateStore {
	return newMemoryRateStore(time.Now)
}

func newMemoryRateStore(clock func() time.Time) *memoryRateStore {
	return &memoryRateStore{
		data:  make(map[string]*memoryCounter),
		clock: clock,
	}
}

func (s *memoryRateStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}

	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// expired counters are dropped lazily on each call
	for k, counter := range s.data {
		if now.After(counter.windowEnd) {
			delete(s.data, k)
		}
	}

	counter, ok := s.data[key]
	if !ok {
		counter = &memoryCounter{windowEnd: now.Add(window)}
		s.data[key] = counter
	}

	counter.count++

	return counter.count, counter.windowEnd.Sub(now), nil
}

const rateKeyPrefix = "roomrental:ratelimit:"

// incrementScript bumps the counter and starts its window on first use. It returns the
// count and the remaining window in milliseconds.
const incrementScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`

// RedisScripter is the subset of the go-redis client used by the Redis rate store.
type RedisScripter interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisRateStore implements RateStore backed by Redis.
type redisRateStore struct {
	client RedisScripter
}

// NewRedisRateStore shares rate limiting counters through Redis.
func NewRedisRateStore(client RedisScripter) (RateStore, error) {
	if client == nil {
		return nil, errors.New("ratelimit: redis client is required")
	}
	return &redisRateStore{client: client}, nil
}

func (s *redisRateStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}

	values, err := s.client.Eval(ctx, incrementScript, []string{rateKeyPrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(values) != 2 {
		return 0, 0, errors.New("ratelimit: unexpected script reply")
	}

	ttl := time.Duration(values[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return int(values[0]), ttl, nil
}
