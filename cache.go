package campaignkit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// contentKey is the blob key of the site content document.
const contentKey = "content/site.json"

// contentCache is an in-memory cache of the site content document with TTL.
// The public GET /content path is by far the hottest read; admin writes
// invalidate it.
type contentCache struct {
	mu      sync.RWMutex
	raw     []byte
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

func newContentCache(s *Store, ttl time.Duration) *contentCache {
	return &contentCache{store: s, ttl: ttl}
}

func (c *contentCache) valid() bool {
	return c.raw != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *contentCache) Invalidate() {
	c.mu.Lock()
	c.raw = nil
	c.mu.Unlock()
}

// Get returns the raw content document, seeding the store from the bundled
// default on first read. It tries a read lock first; only takes a write
// lock if a reload is needed.
func (c *contentCache) Get() ([]byte, error) {
	c.mu.RLock()
	if c.valid() {
		raw := c.raw
		c.mu.RUnlock()
		return raw, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.raw, nil
	}
	raw, err := loadOrSeedContent(c.store)
	if err != nil {
		return nil, err
	}
	c.raw = raw
	c.fetched = time.Now()
	return raw, nil
}

// loadOrSeedContent reads the stored content document, falling back to the
// embedded seed when the store is empty. The seed is written back so
// subsequent reads hit the stored copy.
func loadOrSeedContent(s *Store) ([]byte, error) {
	raw, err := s.GetBlob(contentKey)
	if err == nil {
		return raw, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	var doc ContentDocument
	if err := json.Unmarshal(seedContent, &doc); err != nil {
		return nil, fmt.Errorf("bundled seed content is invalid: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("bundled seed content is invalid: %w", err)
	}
	if err := s.PutBlob(contentKey, seedContent); err != nil {
		return nil, err
	}
	return seedContent, nil
}
