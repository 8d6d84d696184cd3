package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/inkwell-hq/inkwell/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const opTimeout = 2 * time.Second

// Cache is a fail-open read cache over Redis. Every method absorbs Redis
// failures: callers fall through to the primary store and the request
// never fails because of the cache.
type Cache struct {
	client *redis.Client
}

func New(redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client}, nil
}

// GetJSON loads the value stored under key into dest. Returns false on
// miss or on any Redis/decoding failure.
func (c *Cache) GetJSON(key string, dest interface{}) bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Cache get failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return false
	}

	if err := json.Unmarshal(b, dest); err != nil {
		logger.Log.Warn("Cache entry decode failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	return true
}

// SetJSON marshals v and stores it under key with the given TTL.
func (c *Cache) SetJSON(key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Log.Warn("Cache entry encode failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		logger.Log.Warn("Cache set failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("Cache delete failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// DeleteByPrefix removes every key matching prefix* using SCAN plus a
// pipelined DEL, bounded so a huge keyspace cannot stall the caller.
func (c *Cache) DeleteByPrefix(prefix string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var cursor uint64
	for i := 0; i < 10; i++ {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			logger.Log.Warn("Cache scan failed",
				zap.String("prefix", prefix),
				zap.Error(err),
			)
			return
		}

		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				logger.Log.Warn("Cache pipeline delete failed",
					zap.String("prefix", prefix),
					zap.Error(err),
				)
			}
		}

		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func (c *Cache) Close() error {
	return c.client.Close()
}
