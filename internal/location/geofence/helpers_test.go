package geofence

import (
	"math"

	"github.com/google/uuid"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
)

var siteCenter = geo.Coordinate{Latitude: 39.9526, Longitude: -75.1652}

// north returns a coordinate the given number of meters due north of c.
func north(c geo.Coordinate, meters float64) geo.Coordinate {
	return geo.Coordinate{
		Latitude:  c.Latitude + meters/(geo.EarthRadiusMeters*math.Pi/180),
		Longitude: c.Longitude,
	}
}

func newSiteLocation(siteID id.SiteID, center geo.Coordinate, radius float64, strict bool) models.SiteLocation {
	return models.SiteLocation{
		ID:             id.SiteLocationID(uuid.New()),
		SiteID:         siteID,
		SiteName:       "Penn Medicine",
		Address:        "3400 Spruce St",
		Name:           "Main entrance",
		Coordinate:     center,
		RadiusMeters:   radius,
		Active:         true,
		StrictGeofence: strict,
	}
}
