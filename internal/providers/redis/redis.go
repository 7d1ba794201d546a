package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisProvider wraps the shared client with a default TTL and a connection
// monitor. Services use it for cache-aside reads; a cache miss or a Redis
// outage is never an error, callers fall through to Postgres.
type RedisProvider struct {
	Client *redis.Client
	URL    string
	logger *zap.SugaredLogger
	ttl    time.Duration
}

func NewRedisProvider(redisURL string, logger *zap.Logger, ttl time.Duration) *RedisProvider {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{
			Addr: redisURL,
			DB:   0,
		}
	}

	client := redis.NewClient(opts)
	client.Options().MaxRetries = 3
	client.Options().MinRetryBackoff = 100 * time.Millisecond
	client.Options().MaxRetryBackoff = 500 * time.Millisecond

	provider := &RedisProvider{
		Client: client,
		URL:    redisURL,
		logger: logger.Sugar(),
		ttl:    ttl,
	}

	go provider.startConnectionMonitor(context.Background())

	if err := client.Ping(context.Background()).Err(); err != nil {
		provider.logger.Errorw("Redis connection failed at startup", "error", err)
	} else {
		provider.logger.Infow("Redis connected", "url", redisURL, "default_ttl", ttl.String())
	}

	return provider
}

func (r *RedisProvider) SetEX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.Client.Set(ctx, key, value, ttl)
}

func (r *RedisProvider) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.Client.Get(ctx, key)
}

func (r *RedisProvider) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.Client.Del(ctx, keys...)
}

func (r *RedisProvider) Scan(ctx context.Context, cursor uint64, pattern string, count int64) *redis.ScanCmd {
	return r.Client.Scan(ctx, cursor, pattern, count)
}

// DelByPattern removes every key matching the pattern. Used by services to
// invalidate list caches after a write.
func (r *RedisProvider) DelByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	for {
		keys, cur, err := r.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			r.logger.Warnw("Redis scan failed during cache invalidation", "error", err, "pattern", pattern)
			return
		}
		if len(keys) > 0 {
			if err := r.Del(ctx, keys...).Err(); err != nil {
				r.logger.Warnw("Failed to delete cache keys", "error", err, "keys", keys)
			}
		}
		if cur == 0 {
			return
		}
		cursor = cur
	}
}

func (r *RedisProvider) startConnectionMonitor(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	wasConnected := r.Client.Ping(ctx).Err() == nil

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := r.Client.Ping(ctx).Err()
			if err != nil && wasConnected {
				r.logger.Errorw("Redis disconnected", "error", err)
				wasConnected = false
			} else if err == nil && !wasConnected {
				r.logger.Infow("Redis reconnected", "url", r.URL)
				wasConnected = true
			}
		}
	}
}
