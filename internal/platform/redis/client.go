// Package redis owns the optional cache connection. The eligibility cache
// is the only consumer; with no REDIS_URL the service runs without it.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"seatcheck/internal/platform/config"
)

// Client wraps go-redis so health checking and shutdown live in one place.
type Client struct {
	*redis.Client
}

// New dials Redis from config. An empty URL means the cache is not
// configured and New returns (nil, nil); callers treat a nil client as
// cache-off.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
