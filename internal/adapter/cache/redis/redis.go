// Package redis implements the short code cache on top of Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
)

// URLCache maps short codes to original URLs. Entries never expire.
type URLCache struct {
	client redis.Cmdable
}

func NewURLCache(client redis.Cmdable) *URLCache {
	return &URLCache{client: client}
}

// Get returns the original URL cached for shortCode, or entity.ErrCacheMiss.
func (c *URLCache) Get(ctx context.Context, shortCode string) (string, error) {
	const op = "adapter.cache.redis.URLCache.Get"

	originalURL, err := c.client.Get(ctx, shortCode).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrCacheMiss)
		}

		return "", fmt.Errorf("%s: failed to get cached url: %w", op, err)
	}

	return originalURL, nil
}

func (c *URLCache) Set(ctx context.Context, shortCode, originalURL string) error {
	const op = "adapter.cache.redis.URLCache.Set"

	if err := c.client.Set(ctx, shortCode, originalURL, 0).Err(); err != nil {
		return fmt.Errorf("%s: failed to cache url: %w", op, err)
	}

	return nil
}
