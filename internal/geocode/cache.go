package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// Cache stores search results by normalized query and limit.
type Cache interface {
	Get(ctx context.Context, key string) (*FeatureCollection, bool)
	Set(ctx context.Context, key string, fc *FeatureCollection)
}

// CachedClient serves repeated searches from a Cache. Errors are never cached.
type CachedClient struct {
	next  Client
	cache Cache
}

var _ Client = (*CachedClient)(nil)

// NewCachedClient wraps next with cache.
func NewCachedClient(next Client, cache Cache) *CachedClient {
	return &CachedClient{next: next, cache: cache}
}

// Search implements Client.
func (c *CachedClient) Search(ctx context.Context, q string, limit int) (*FeatureCollection, error) {
	key := cacheKey(q, limit)
	if fc, ok := c.cache.Get(ctx, key); ok {
		return fc, nil
	}

	fc, err := c.next.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, fc)
	return fc, nil
}

func cacheKey(q string, limit int) string {
	return strconv.Itoa(limit) + ":" + strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// LRUCache keeps results in process memory.
type LRUCache struct {
	cache *lru.Cache[string, *FeatureCollection]
}

// NewLRUCache returns an in-memory cache holding up to size results.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, *FeatureCollection](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{cache: c}, nil
}

// Get implements Cache.
func (c *LRUCache) Get(_ context.Context, key string) (*FeatureCollection, bool) {
	return c.cache.Get(key)
}

// Set implements Cache.
func (c *LRUCache) Set(_ context.Context, key string, fc *FeatureCollection) {
	c.cache.Add(key, fc)
}

// RedisCache shares results between instances through Redis.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *log.Logger
}

// NewRedisCache returns a cache whose entries expire after ttl.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, logger *log.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get implements Cache. Redis failures are treated as misses.
func (c *RedisCache) Get(ctx context.Context, key string) (*FeatureCollection, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("geocode cache read failed", "err", err)
		}
		return nil, false
	}

	var fc FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		c.logger.Warn("geocode cache entry corrupt", "key", key, "err", err)
		return nil, false
	}
	return &fc, true
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, fc *FeatureCollection) {
	raw, err := json.Marshal(fc)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("geocode cache write failed", "err", err)
	}
}
