package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, exists := f.values[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values[keys[0]] == args[0].(string) {
		delete(f.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLockerExclusive(t *testing.T) {
	fake := newFakeRedis()
	locker, err := NewRedisLocker(fake)
	require.NoError(t, err)
	ctx := context.Background()

	unlock, ok, err := locker.TryLock(ctx, "lease-sweep", 2*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2*time.Minute, fake.ttls["roomrental:lease-sweep"])

	_, ok, err = locker.TryLock(ctx, "lease-sweep", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, unlock(ctx))
	_, ok, err = locker.TryLock(ctx, "lease-sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	fake := newFakeRedis()
	locker, err := NewRedisLocker(fake)
	require.NoError(t, err)
	ctx := context.Background()

	unlock, ok, err := locker.TryLock(ctx, "lease-sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// the lock expired and another replica took it
	fake.values["roomrental:lease-sweep"] = "other"
	require.NoError(t, unlock(ctx))
	require.Equal(t, "other", fake.values["roomrental:lease-sweep"])
}

func TestRedisLockerPropagatesErrors(t *testing.T) {
	fake := newFakeRedis()
	fake.err = errors.New("connection refused")
	locker, err := NewRedisLocker(fake)
	require.NoError(t, err)

	_, ok, err := locker.TryLock(context.Background(), "lease-sweep", time.Minute)
	require.Error(t, err)
	require.False(t, ok)

	_, err = NewRedisLocker(nil)
	require.Error(t, err)
}

func TestLocalLockerExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	locker := NewLocalLocker()
	locker.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = locker.TryLock(ctx, "k", time.Minute)
	require.False(t, ok)

	now = now.Add(2 * time.Minute)
	unlock, ok, _ := locker.TryLock(ctx, "k", time.Minute)
	require.True(t, ok)
	require.NoError(t, unlock(ctx))

	_, ok, _ = locker.TryLock(ctx, "k", time.Minute)
	require.True(t, ok)
}

func TestNewRedisClientRequiresAddress(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisConfig{})
	require.Error(t, err)
}
