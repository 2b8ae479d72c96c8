package models

import (
	"clockgeo/internal/geo"
	id "clockgeo/pkg/domain"
)

// SiteLocation is one geofenced point of a clinical site (a building or
// entrance). A site may have many; only active ones take part in lookups.
// The verification subsystem reads these but never creates them.
type SiteLocation struct {
	ID             id.SiteLocationID
	SiteID         id.SiteID
	SiteName       string
	Address        string
	Name           string
	Coordinate     geo.Coordinate
	RadiusMeters   float64
	Active         bool
	StrictGeofence bool
}

// NearestSite describes the site location a reading was measured against.
type NearestSite struct {
	SiteID         id.SiteID
	LocationID     id.SiteLocationID
	Name           string
	Address        string
	RadiusMeters   float64
	StrictGeofence bool
}
