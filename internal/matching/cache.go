package matching

import (
	"context"
	"sync"

	"github.com/jonathan/job-scout/internal/types"
)

// Key identifies one (job, profile) scoring.
type Key struct {
	JobURL    string
	ProfileID string
}

// Cache stores match results by Key.
type Cache interface {
	Get(ctx context.Context, key Key) (types.MatchResult, bool, error)
	Set(ctx context.Context, key Key, result types.MatchResult) error
	// InvalidateProfile drops every result computed for profileID.
	InvalidateProfile(ctx context.Context, profileID string) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	results map[Key]types.MatchResult
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{results: make(map[Key]types.MatchResult)}
}

// Get returns the cached result for key.
func (c *MemoryCache) Get(_ context.Context, key Key) (types.MatchResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.results[key]
	return result, ok, nil
}

// Set stores result under key.
func (c *MemoryCache) Set(_ context.Context, key Key, result types.MatchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = result
	return nil
}

// InvalidateProfile removes all entries for profileID.
func (c *MemoryCache) InvalidateProfile(_ context.Context, profileID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.results {
		if key.ProfileID == profileID {
			delete(c.results, key)
		}
	}
	return nil
}

// Len returns the number of cached results.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
