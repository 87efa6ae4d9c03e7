package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hmori-dev/capsearch/internal/infrastructure/metrics"
)

const (
	// transcriptKeyPrefix is the prefix for transcript cache keys in Redis.
	transcriptKeyPrefix = "transcript:"
)

// RedisTranscriptCache implements TranscriptCache using Redis as the backing
// store. Expiry is delegated to Redis key TTLs, so a stale entry is never
// observable: once the TTL elapses the key simply reads as absent.
type RedisTranscriptCache struct {
	client *redis.Client
}

// NewRedisTranscriptCache creates a new Redis-backed transcript cache.
func NewRedisTranscriptCache(client *redis.Client) *RedisTranscriptCache {
	return &RedisTranscriptCache{
		client: client,
	}
}

// Get retrieves a caption document from Redis.
// Returns ok=false on cache miss or expired entry.
func (c *RedisTranscriptCache) Get(ctx context.Context, videoID string) (string, bool, error) {
	captions, err := c.client.Get(ctx, c.buildKey(videoID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
			return "", false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return captions, true, nil
}

// Set stores a caption document in Redis with the specified TTL, overwriting
// any previous entry for the same video.
func (c *RedisTranscriptCache) Set(ctx context.Context, videoID string, captions string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.buildKey(videoID), captions, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	return nil
}

// buildKey constructs the Redis key for a video's transcript.
func (c *RedisTranscriptCache) buildKey(videoID string) string {
	return transcriptKeyPrefix + videoID
}

// Compile-time verification that RedisTranscriptCache implements TranscriptCache.
var _ TranscriptCache = (*RedisTranscriptCache)(nil)
