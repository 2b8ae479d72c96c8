// Package memory holds in-memory stores for development and tests.
package memory

import (
	"context"
	"sync"

	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
)

// SiteLocationStore keeps clinical site locations in memory.
type SiteLocationStore struct {
	mu        sync.RWMutex
	locations map[id.SiteLocationID]models.SiteLocation
	// failWith makes every read fail; used to exercise fault handling.
	failWith error
}

func NewSiteLocationStore(locations ...models.SiteLocation) *SiteLocationStore {
	s := &SiteLocationStore{locations: make(map[id.SiteLocationID]models.SiteLocation)}
	for _, l := range locations {
		s.locations[l.ID] = l
	}
	return s
}

// Put inserts or replaces a site location. Site administration lives outside
// this service; Put exists for seeding.
func (s *SiteLocationStore) Put(loc models.SiteLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = loc
}

// FailWith makes subsequent reads return err (nil restores normal behavior).
func (s *SiteLocationStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *SiteLocationStore) ListActive(_ context.Context, siteFilter *id.SiteID) ([]models.SiteLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]models.SiteLocation, 0, len(s.locations))
	for _, l := range s.locations {
		if !l.Active {
			continue
		}
		if siteFilter != nil && l.SiteID != *siteFilter {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
