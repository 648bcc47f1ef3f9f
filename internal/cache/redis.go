// Package cache provides the Redis access layer: profile caching and
// per-subject API rate limiting.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when Redis cannot answer a rate limit check.
var ErrUnavailable = errors.New("cache unavailable")

// Key prefixes for the profile cache and the API limiter.
const (
	keyPrefix     = "qc:"
	profilePrefix = keyPrefix + "profile:"
	limitPrefix   = keyPrefix + "ratelimit:"
)

// Cache holds the Redis client shared by the profile cache, the API rate
// limiter and the notification stream.
type Cache struct {
	client *redis.Client
	now    func() time.Time
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
	opt.ClientName = "questionconnection-api"

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}

	return NewFromClient(client), nil
}

// NewFromClient wraps an existing client. Tests pass a redismock client.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client, now: time.Now}
}

// Ping satisfies handler.HealthChecker.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the raw client for the notification stream publisher and worker.
func (c *Cache) Client() *redis.Client {
	return c.client
}
