package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/carddex/internal/checklist"
)

// parseSummaryTTL bounds how long a cached parse summary stays valid.
const parseSummaryTTL = 15 * time.Minute

// RedisCache handles caching and fast state storage
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a key-value pair with TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// Delete removes a key
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

func parseSummaryKey(setID int) string {
	return fmt.Sprintf("carddex:parse_summary:%d", setID)
}

// SetParseSummary caches the parse summary of the last import into a set
func (rc *RedisCache) SetParseSummary(ctx context.Context, setID int, summary checklist.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return rc.client.Set(ctx, parseSummaryKey(setID), data, parseSummaryTTL).Err()
}

// GetParseSummary returns the cached parse summary for a set, with found
// reporting a cache hit
func (rc *RedisCache) GetParseSummary(ctx context.Context, setID int) (checklist.Summary, bool, error) {
	var summary checklist.Summary

	data, err := rc.client.Get(ctx, parseSummaryKey(setID)).Result()
	if err == redis.Nil {
		return summary, false, nil
	}
	if err != nil {
		return summary, false, err
	}

	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return summary, false, err
	}
	return summary, true, nil
}
