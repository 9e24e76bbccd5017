package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/job-scout/internal/types"
)

// DefaultRedisPrefix namespaces match results in a shared Redis.
const DefaultRedisPrefix = "job-scout:match"

// RedisCache persists match results across runs. Degraded results are kept
// for the life of the process only, so a later run scores those jobs again.
type RedisCache struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	session *MemoryCache
}

// NewRedisCache wraps an existing client. ttl <= 0 keeps entries forever.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, session: NewMemoryCache()}
}

// DialRedis creates a client from a redis:// URL and checks the connection.
func DialRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// escapeKeyPart keeps ':' and SCAN glob characters out of key segments.
func escapeKeyPart(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "*", "%2A")
}

func (c *RedisCache) profilePrefix(profileID string) string {
	return c.prefix + ":" + escapeKeyPart(profileID) + ":"
}

func (c *RedisCache) key(k Key) string {
	return c.profilePrefix(k.ProfileID) + escapeKeyPart(k.JobURL)
}

// Get returns the cached result for key.
func (c *RedisCache) Get(ctx context.Context, key Key) (types.MatchResult, bool, error) {
	if result, ok, _ := c.session.Get(ctx, key); ok {
		return result, true, nil
	}

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.MatchResult{}, false, nil
	}
	if err != nil {
		return types.MatchResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var result types.MatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return types.MatchResult{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return result, true, nil
}

// Set stores result under key with the cache TTL. Degraded results never
// reach Redis.
func (c *RedisCache) Set(ctx context.Context, key Key, result types.MatchResult) error {
	if result.Degraded {
		return c.session.Set(ctx, key, result)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// InvalidateProfile deletes every key under the profile's prefix.
func (c *RedisCache) InvalidateProfile(ctx context.Context, profileID string) error {
	_ = c.session.InvalidateProfile(ctx, profileID)

	iter := c.client.Scan(ctx, 0, c.profilePrefix(profileID)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
