package config

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheDisabled is returned when REDIS_URL is empty.
var ErrCacheDisabled = errors.New("REDIS_URL is not set, comment cache disabled")

// NewRedisClient connects the comment thread cache. Cache calls share the
// store timeout so a slow Redis cannot hold up a public listing.
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, ErrCacheDisabled
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opt.DialTimeout = timeout
	opt.ReadTimeout = timeout
	opt.WriteTimeout = timeout

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
