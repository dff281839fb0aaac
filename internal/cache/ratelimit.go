package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// mutationBucketPrefix namespaces the per-IP buckets guarding cat
	// mutations.
	mutationBucketPrefix = "ratelimit:cats:ip:"
	// minBucketTTL keeps idle buckets around long enough to refill.
	minBucketTTL = 10 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int64
	// ResetAt is when the bucket will be full again.
	ResetAt    time.Time
	RetryAfter time.Duration
}

// mutationBucketScript refills and takes one token atomically. Times are
// in milliseconds so refills are not quantized to whole seconds.
//
// Returns {allowed, retry_after_ms, remaining_tokens, ms_until_full}.
var mutationBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'ts')
	local tokens = tonumber(data[1]) or burst
	local ts = tonumber(data[2]) or now
	if now > ts then
		tokens = math.min(burst, tokens + (now - ts) * rate / 1000)
	end

	local allowed = 0
	local retry_ms = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_ms = math.ceil((1 - tokens) * 1000 / rate)
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', now)
	redis.call('PEXPIRE', key, ttl)

	local full_ms = math.ceil((burst - tokens) * 1000 / rate)
	return {allowed, retry_ms, math.floor(tokens), full_ms}
`)

// CheckIPRateLimit takes one token from the mutation bucket of ip. The IP
// is hashed so raw addresses are never stored. Callers decide whether to
// fail open on error.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 || burst <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d/s burst %d", ratePerSecond, burst)
	}

	now := time.Now()
	ttl := bucketTTL(ratePerSecond, burst)

	res, err := mutationBucketScript.Run(ctx, c.client,
		[]string{mutationBucketPrefix + hashIP(ip)},
		ratePerSecond, burst, now.UnixMilli(), ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(res) != 4 {
		return nil, fmt.Errorf("rate limit script returned %d values", len(res))
	}

	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Limit:      burst,
		Remaining:  res[2],
		ResetAt:    now.Add(time.Duration(res[3]) * time.Millisecond),
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
	}, nil
}

// bucketTTL is the time an empty bucket needs to refill, with a floor.
func bucketTTL(ratePerSecond, burst int) time.Duration {
	refill := time.Duration(math.Ceil(float64(burst)/float64(ratePerSecond))) * time.Second
	if refill < minBucketTTL {
		return minBucketTTL
	}
	return refill
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
