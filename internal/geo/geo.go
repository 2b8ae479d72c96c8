// Package geo holds the pure geometry and accuracy policy used by geofence
// validation. Nothing here blocks or touches I/O.
package geo

import (
	"fmt"
	"math"

	dErrors "clockgeo/pkg/domain-errors"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// Coordinate is a validated WGS84 position. Construct with NewCoordinate.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// NewCoordinate validates ranges and rejects out-of-range values; it never clamps.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return Coordinate{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("latitude must be between -90 and 90, got %v", lat))
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return Coordinate{}, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("longitude must be between -180 and 180, got %v", lng))
	}
	return Coordinate{Latitude: lat, Longitude: lng}, nil
}

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLng := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h fractionally above 1 for antipodal points
	h = math.Min(1, h)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
