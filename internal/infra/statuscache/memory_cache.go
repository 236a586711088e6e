package statuscache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/opening-hours/internal/domain/hours"
)

type statusRecord struct {
	payload   hours.StatusResponse
	expiresAt time.Time
}

// MemoryCache is an in-process status cache for tests/dev and single-instance deployments.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]statusRecord
	now     func() time.Time
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]statusRecord),
		now:     time.Now,
	}
}

// Get implements hours.StatusCache.
func (c *MemoryCache) Get(_ context.Context, key string) (hours.StatusResponse, bool, error) {
	c.mu.RLock()
	record, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return hours.StatusResponse{}, false, nil
	}
	if c.expired(record.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return hours.StatusResponse{}, false, nil
	}
	return record.payload, true, nil
}

// Save stores the status with optional TTL and drops expired entries.
func (c *MemoryCache) Save(_ context.Context, key string, status hours.StatusResponse, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	for k, record := range c.entries {
		if c.expired(record.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = statusRecord{payload: status, expiresAt: exp}
	return nil
}

func (c *MemoryCache) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(c.now())
}

var _ hours.StatusCache = (*MemoryCache)(nil)
