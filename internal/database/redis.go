package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pageza/recipebox/backend/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to cfg.RedisURL. It returns nil, nil when no URL is
// configured so callers can run without Redis.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("successfully connected to redis", "addr", opts.Addr)
	return client, nil
}
