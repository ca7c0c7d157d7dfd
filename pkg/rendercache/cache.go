// Package rendercache memoizes rendered HTML by content hash. Entries live in
// an in-process cache and, when a Redis client is configured, in Redis so
// that several API instances share work.
package rendercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "render:"

// ErrorHandler receives Redis failures; they never fail a lookup.
type ErrorHandler func(op string, err error)

// Cache is a two level render cache.
type Cache struct {
	local   *cache.Cache
	remote  *redis.Client
	ttl     time.Duration
	onError ErrorHandler
}

// Option configures a Cache.
type Option func(*Cache)

// WithRedis adds a shared second level. A nil client is ignored.
func WithRedis(rdb *redis.Client) Option {
	return func(c *Cache) {
		c.remote = rdb
	}
}

// WithErrorHandler sets the callback for Redis failures.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(c *Cache) {
		c.onError = fn
	}
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c := &Cache{
		local:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		onError: func(string, error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives a cache key from a namespace (renderer fingerprint, output
// kind) and the raw document bytes.
func Key(namespace string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks the key up locally, then in Redis. Remote hits are copied into
// the local level.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if v, found := c.local.Get(key); found {
		return v.(string), true
	}
	if c.remote == nil {
		return "", false
	}

	v, err := c.remote.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.onError("get", err)
		}
		return "", false
	}
	c.local.Set(key, v, cache.DefaultExpiration)
	return v, true
}

// Set stores the value in both levels.
func (c *Cache) Set(ctx context.Context, key, value string) {
	c.local.Set(key, value, cache.DefaultExpiration)
	if c.remote == nil {
		return
	}
	if err := c.remote.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		c.onError("set", err)
	}
}

// GetOrRender returns the cached value for key, calling render and storing
// its result on a miss.
func (c *Cache) GetOrRender(ctx context.Context, key string, render func() string) string {
	if v, ok := c.Get(ctx, key); ok {
		return v
	}
	v := render()
	c.Set(ctx, key, v)
	return v
}

// Len reports the number of entries in the local level.
func (c *Cache) Len() int {
	return c.local.ItemCount()
}

// Flush empties the local level.
func (c *Cache) Flush() {
	c.local.Flush()
}
