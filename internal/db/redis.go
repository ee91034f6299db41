package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions parses redisURL and names the client after the service.
func RedisOptions(redisURL string) (*redis.Options, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = ApplicationName
	}
	return opts, nil
}

// NewRedisClient opens a client and pings it once. The same client carries
// pub/sub events and rate-limit counters.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := RedisOptions(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
