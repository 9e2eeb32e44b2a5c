package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

const sourceKeyPrefix = "newsletter:template-source:"

// SourceReader returns the contents of a template source.
type SourceReader interface {
	Read(ctx context.Context, path string) (string, error)
}

// CachedSource serves template sources from Redis, falling back to next on
// a miss. Redis failures are logged and bypassed.
type CachedSource struct {
	client *redis.Client
	next   SourceReader
	ttl    time.Duration
}

// NewCachedSource creates a Redis-backed cache in front of next.
func NewCachedSource(client *redis.Client, next SourceReader, ttl time.Duration) *CachedSource {
	return &CachedSource{client: client, next: next, ttl: ttl}
}

// NewRedisClient connects to url and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func (c *CachedSource) Read(ctx context.Context, path string) (string, error) {
	key := sourceKeyPrefix + path

	body, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return body, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Warn("template cache read failed", "path", path, "error", err)
	}

	body, err = c.next.Read(ctx, path)
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		logger.Warn("template cache write failed", "path", path, "error", err)
	}
	return body, nil
}

// Invalidate drops the cached copy of path.
func (c *CachedSource) Invalidate(ctx context.Context, path string) error {
	return c.client.Del(ctx, sourceKeyPrefix+path).Err()
}

// Uncached adapts a SourceReader for use where a cache is expected.
type Uncached struct {
	SourceReader
}

// Invalidate is a no-op.
func (Uncached) Invalidate(context.Context, string) error { return nil }
