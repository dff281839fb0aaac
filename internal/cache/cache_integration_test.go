//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/catsfront/catsfront/internal/model"
	"github.com/catsfront/catsfront/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.client); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return ctx, c
}

func TestIntegrationCatCache(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	if _, err := c.GetCat(ctx, 1); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	cat := &model.Cat{ID: 1, Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5}
	if err := c.SetCat(ctx, cat); err != nil {
		t.Fatalf("SetCat: %v", err)
	}

	got, err := c.GetCat(ctx, 1)
	if err != nil {
		t.Fatalf("GetCat: %v", err)
	}
	if diff := cmp.Diff(cat, got); diff != "" {
		t.Errorf("GetCat mismatch (-want +got):\n%s", diff)
	}

	ttl, err := c.client.TTL(ctx, catKey(1)).Result()
	if err != nil || ttl <= 0 || ttl > DefaultCatTTL {
		t.Errorf("unexpected TTL %v (err %v)", ttl, err)
	}

	if err := c.DeleteCat(ctx, 1); err != nil {
		t.Fatalf("DeleteCat: %v", err)
	}
	if _, err := c.GetCat(ctx, 1); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestIntegrationCatCache_CorruptEntryIsMiss(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	c.client.HSet(ctx, catKey(5), "id", "five", "age", "1", "weight", "1")

	if _, err := c.GetCat(ctx, 5); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
	if n, _ := c.client.Exists(ctx, catKey(5)).Result(); n != 0 {
		t.Error("corrupt entry should be removed")
	}
}

func TestIntegrationIPRateLimit(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	const burst = 3
	allowed := 0
	for i := 0; i < burst+2; i++ {
		res, err := c.CheckIPRateLimit(ctx, "203.0.113.7", 1, burst)
		if err != nil {
			t.Fatalf("CheckIPRateLimit: %v", err)
		}
		if res.Allowed {
			allowed++
		} else if res.RetryAfter <= 0 {
			t.Error("denied result should carry RetryAfter")
		}
	}

	// A refill may land between calls when the loop crosses a second.
	if allowed < burst || allowed > burst+1 {
		t.Errorf("allowed = %d, want %d", allowed, burst)
	}

	other, err := c.CheckIPRateLimit(ctx, "203.0.113.8", 1, burst)
	if err != nil || !other.Allowed {
		t.Errorf("other IP should have its own bucket: %+v, %v", other, err)
	}
}

func TestIntegrationIPRateLimit_InvalidConfig(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	if _, err := c.CheckIPRateLimit(ctx, "203.0.113.7", 0, 1); err == nil {
		t.Error("expected error for zero rate")
	}
}
