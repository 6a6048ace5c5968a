package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotHeld is returned by Unlock when the lock expired or belongs to someone else.
var ErrNotHeld = errors.New("lock not held")

// Locker serializes reconcile runs against one inventory.
type Locker interface {
	// Lock blocks until the lock is acquired or ctx is done.
	// The returned function releases it.
	Lock(ctx context.Context) (unlock func() error, err error)
}

// MutexLocker is an in-process Locker.
type MutexLocker struct {
	ch chan struct{}
}

// NewMutexLocker creates an unlocked MutexLocker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{ch: make(chan struct{}, 1)}
}

// Lock implements Locker.
func (m *MutexLocker) Lock(ctx context.Context) (func() error, error) {
	select {
	case m.ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() error {
		once.Do(func() { <-m.ch })
		return nil
	}, nil
}

var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every process using the same Redis key.
type RedisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
}

// NewRedisLocker creates a RedisLocker on key. The lock expires after ttl if never released.
func NewRedisLocker(client *redis.Client, key string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisLocker{client: client, key: key, ttl: ttl, retry: 50 * time.Millisecond}
}

// Lock implements Locker. It polls SET NX until it wins or ctx is done.
func (r *RedisLocker) Lock(ctx context.Context) (func() error, error) {
	token := uuid.NewString()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", r.key, err)
		}
		if ok {
			break
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return func() error {
		// Release must succeed even when the caller's context is already cancelled.
		released, err := releaseScript.Run(context.Background(), r.client, []string{r.key}, token).Int()
		if err != nil {
			return fmt.Errorf("failed to release lock %s: %w", r.key, err)
		}
		if released == 0 {
			return ErrNotHeld
		}
		return nil
	}, nil
}

// New returns a RedisLocker when cfg names a Redis server, otherwise a MutexLocker.
// The returned close function releases the Redis connection.
func New(cfg Config) (Locker, func() error, error) {
	if cfg.RedisAddr == "" {
		return NewMutexLocker(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.RedisAddr, err)
	}

	return NewRedisLocker(client, cfg.Key, time.Duration(cfg.TTLSeconds)*time.Second), client.Close, nil
}
