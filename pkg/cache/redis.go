package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when the Redis server cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// redisKeyPrefix namespaces photobooth entries in a shared Redis database.
const redisKeyPrefix = "photobooth:"

// RedisCache stores artifacts and thumbnails in Redis using native key
// expiry. Booths that share one server should also use a [ScopedKeyer].
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache connects to the Redis server at addr and verifies the
// connection with a PING.
func NewRedisCache(ctx context.Context, addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, addr, err)
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client. Close closes it.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves an entry. redis.Nil is reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := withRetry(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, redisKeyPrefix+key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores an entry; ttl <= 0 keeps it until evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return withRetry(ctx, func() error {
		return c.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err()
	})
}

// Delete removes an entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, redisKeyPrefix+key).Err()
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)

// =============================================================================
// Retries
// =============================================================================

const redisAttempts = 3

// retryDelay is the first backoff delay of withRetry.
var retryDelay = 100 * time.Millisecond

// transient reports whether err is a network failure worth retrying.
// Redis replies, including redis.Nil, are final.
func transient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

// withRetry runs fn up to redisAttempts times, doubling the delay after
// each transient failure.
func withRetry(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for i := 0; i < redisAttempts; i++ {
		if err = fn(); err == nil || !transient(err) {
			return err
		}
		if i == redisAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
