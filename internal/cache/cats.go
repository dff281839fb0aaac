package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/catsfront/catsfront/internal/model"
)

// Cache key prefix and TTL.
const (
	catKeyPrefix = "cat:"

	// DefaultCatTTL is the TTL for cached cat records.
	DefaultCatTTL = 10 * time.Minute
)

// ErrCacheMiss is returned when a cat is not cached.
var ErrCacheMiss = errors.New("cache miss")

// catKey returns the hash key of a cat.
func catKey(id int64) string {
	return catKeyPrefix + strconv.FormatInt(id, 10)
}

// catFields flattens a cat into hash fields.
func catFields(cat *model.Cat) map[string]any {
	cached := cat.ToCachedCat()
	return map[string]any{
		model.FieldID:     cached.ID,
		model.FieldName:   cached.Name,
		model.FieldBreed:  cached.Breed,
		model.FieldAge:    cached.Age,
		model.FieldWeight: cached.Weight,
	}
}

// cachedCatFromHash rebuilds the cache representation from HGETALL output.
func cachedCatFromHash(h map[string]string) *model.CachedCat {
	return &model.CachedCat{
		ID:     h[model.FieldID],
		Name:   h[model.FieldName],
		Breed:  h[model.FieldBreed],
		Age:    h[model.FieldAge],
		Weight: h[model.FieldWeight],
	}
}

// GetCat retrieves a cat by id. Returns ErrCacheMiss if not found.
func (c *Cache) GetCat(ctx context.Context, id int64) (*model.Cat, error) {
	result, err := c.client.HGetAll(ctx, catKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	cat, err := cachedCatFromHash(result).ToCat()
	if err != nil {
		// Corrupt entry: drop it and report a miss.
		c.client.Del(ctx, catKey(id))
		return nil, ErrCacheMiss
	}
	return cat, nil
}

// SetCat stores a cat in cache.
func (c *Cache) SetCat(ctx context.Context, cat *model.Cat) error {
	key := catKey(cat.ID)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, catFields(cat))
	pipe.Expire(ctx, key, c.catTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache cat: %w", err)
	}
	return nil
}

// DeleteCat removes a cat from cache.
func (c *Cache) DeleteCat(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, catKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cat from cache: %w", err)
	}
	return nil
}
