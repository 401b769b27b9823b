package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/techtrack/techtrack/internal/utils"
)

const cacheKeyPrefix = "techtrack:github:popularity:"

// Cache keeps popularity results between lookups.
type Cache interface {
	Get(ctx context.Context, name string) (Popularity, bool, error)
	Set(ctx context.Context, name string, popularity Popularity, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, name string) (Popularity, bool, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Popularity{}, false, nil
		}
		return Popularity{}, false, fmt.Errorf("could not read cached popularity: %w", err)
	}
	var popularity Popularity
	if err := json.Unmarshal(data, &popularity); err != nil {
		return Popularity{}, false, fmt.Errorf("cached popularity is malformed: %w", err)
	}
	return popularity, true, nil
}

func (c *RedisCache) Set(ctx context.Context, name string, popularity Popularity, ttl time.Duration) error {
	data, err := json.Marshal(popularity)
	if err != nil {
		return fmt.Errorf("could not encode popularity: %w", err)
	}
	return c.client.Set(ctx, cacheKeyPrefix+name, data, ttl).Err()
}

type memoryEntry struct {
	popularity Popularity
	expiresAt  time.Time
}

// MemoryCache is a process-local Cache used when Redis is not configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   utils.Clock
}

func NewMemoryCache(clock utils.Clock) *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), clock: clock}
}

func (c *MemoryCache) Get(ctx context.Context, name string) (Popularity, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[name]
	if !ok {
		return Popularity{}, false, nil
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, name)
		return Popularity{}, false, nil
	}
	return entry.popularity, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, name string, popularity Popularity, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.entries[name] = memoryEntry{popularity: popularity, expiresAt: now.Add(ttl)}
	return nil
}

// Len reports the number of entries held, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
