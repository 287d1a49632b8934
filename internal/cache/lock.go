package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Unlock releases a lock obtained from a Locker.
type Unlock func(ctx context.Context) error

// Locker hands out short-lived exclusive locks. TryLock never blocks: when another holder
// owns the key it returns ok == false.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock Unlock, ok bool, err error)
}

// RedisCommander is the subset of *redis.Client used by RedisLocker.
type RedisCommander interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// releaseScript deletes the key only when it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLocker coordinates replicas through SET NX with an expiry.
type RedisLocker struct {
	client RedisCommander
}

// NewRedisLocker wraps a Redis client.
func NewRedisLocker(client RedisCommander) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis locker: client is required")
	}
	return &RedisLocker{client: client}, nil
}

// TryLock sets key to a random token if it is absent. The lock expires after ttl even if
// the holder never releases it.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	key = prefixed(key)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func(ctx context.Context) error {
		return l.client.Eval(ctx, releaseScript, []string{key}, token).Err()
	}
	return unlock, true, nil
}

// LocalLocker is an in-process Locker for single replica deployments.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewLocalLocker constructs a LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), now: time.Now}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (Unlock, bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expires, ok := l.held[key]; ok && now.Before(expires) {
		return nil, false, nil
	}
	expires := now.Add(ttl)
	l.held[key] = expires

	unlock := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if current, ok := l.held[key]; ok && current.Equal(expires) {
			delete(l.held, key)
		}
		return nil
	}
	return unlock, true, nil
}
