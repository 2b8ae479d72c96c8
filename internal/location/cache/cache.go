// Package cache holds the advisory site-location lookup cache. Entries only
// save a store round trip; every fault falls through to the store.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"clockgeo/internal/location/metrics"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
)

// Cache stores active site-location lists under a filter key.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.SiteLocation, bool, error)
	Set(ctx context.Context, key string, locations []models.SiteLocation, ttl time.Duration) error
}

// SiteLocationStore is the store being cached.
type SiteLocationStore interface {
	ListActive(ctx context.Context, siteFilter *id.SiteID) ([]models.SiteLocation, error)
}

// CachedSiteStore decorates a SiteLocationStore with an advisory cache.
// Concurrent misses for the same key share one store read.
type CachedSiteStore struct {
	store   SiteLocationStore
	cache   Cache
	ttl     time.Duration
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*CachedSiteStore)

func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedSiteStore) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *CachedSiteStore) {
		c.metrics = m
	}
}

func NewCachedSiteStore(store SiteLocationStore, cache Cache, ttl time.Duration, opts ...Option) *CachedSiteStore {
	c := &CachedSiteStore{store: store, cache: cache, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedSiteStore) ListActive(ctx context.Context, siteFilter *id.SiteID) ([]models.SiteLocation, error) {
	key := filterKey(siteFilter)

	locations, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.IncrementCacheLookup("error")
		c.warn(ctx, "site cache read failed", key, err)
	case ok:
		c.metrics.IncrementCacheLookup("hit")
		return locations, nil
	default:
		c.metrics.IncrementCacheLookup("miss")
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		fresh, err := c.store.ListActive(ctx, siteFilter)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, key, fresh, c.ttl); err != nil {
			c.warn(ctx, "site cache write failed", key, err)
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.SiteLocation), nil
}

func (c *CachedSiteStore) warn(ctx context.Context, msg, key string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "key", key, "error", err)
	}
}

func filterKey(siteFilter *id.SiteID) string {
	if siteFilter == nil {
		return "sites:all"
	}
	return "sites:" + siteFilter.String()
}

// MemoryCache is a process-local TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	locations []models.SiteLocation
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]models.SiteLocation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return append([]models.SiteLocation(nil), e.locations...), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, locations []models.SiteLocation, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{
		locations: append([]models.SiteLocation(nil), locations...),
		expiresAt: m.now().Add(ttl),
	}
	return nil
}
