package geofence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
)

// SiteLocationStore lists active clinical site locations, optionally for one site.
type SiteLocationStore interface {
	ListActive(ctx context.Context, siteFilter *id.SiteID) ([]models.SiteLocation, error)
}

// Match is the nearest active site location to a coordinate.
type Match struct {
	Location models.SiteLocation
	Distance float64
}

// Locator finds the nearest active site location.
type Locator struct {
	store SiteLocationStore
}

func NewLocator(store SiteLocationStore) *Locator {
	return &Locator{store: store}
}

// Nearest returns the closest active location, or (nil, nil) when no active
// location exists for the filter. Equal distances resolve to the lowest
// location id so the result does not depend on store ordering.
func (l *Locator) Nearest(ctx context.Context, coord geo.Coordinate, siteFilter *id.SiteID) (*Match, error) {
	locations, err := l.store.ListActive(ctx, siteFilter)
	if err != nil {
		return nil, fmt.Errorf("list active site locations: %w", err)
	}

	var best *Match
	for _, loc := range locations {
		if !loc.Active {
			continue
		}
		d := geo.Distance(coord, loc.Coordinate)
		if best == nil || d < best.Distance || (d == best.Distance && lessID(loc.ID, best.Location.ID)) {
			best = &Match{Location: loc, Distance: d}
		}
	}
	return best, nil
}

func lessID(a, b id.SiteLocationID) bool {
	return uuid.UUID(a).String() < uuid.UUID(b).String()
}
