package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// PassthroughCache always misses, forcing every request through the service.
type PassthroughCache struct{}

func (c *PassthroughCache) Get(ctx context.Context, key string, dest any) error {
	return redis.Nil
}

func (c *PassthroughCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	return nil
}

func (c *PassthroughCache) Close() error {
	return nil
}

// TrackingCache counts cache traffic while behaving like a real expiring
// JSON store. Safe for concurrent use: cache population happens on
// background goroutines.
type TrackingCache struct {
	mu       sync.Mutex
	getCalls int
	setCalls int
	data     map[string]cacheEntry
}

type cacheEntry struct {
	payload []byte
	expiry  time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data: make(map[string]cacheEntry),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	if entry, exists := c.data[key]; exists && time.Now().Before(entry.expiry) {
		return json.Unmarshal(entry.payload, dest)
	}
	return redis.Nil
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCalls++
	c.data[key] = cacheEntry{
		payload: payload,
		expiry:  time.Now().Add(exp),
	}
	return nil
}

func (c *TrackingCache) Close() error {
	return nil
}

func (c *TrackingCache) GetCallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls
}

func (c *TrackingCache) SetCallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCalls
}
