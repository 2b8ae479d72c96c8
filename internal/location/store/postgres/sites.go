// Package postgres holds the PostgreSQL stores of the location module. Stores
// are pure I/O and join the caller's transaction through tx.Exec.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/tx"
)

// SiteLocationStore reads clinical site locations.
type SiteLocationStore struct {
	db *sql.DB
}

func NewSiteLocationStore(db *sql.DB) *SiteLocationStore {
	return &SiteLocationStore{db: db}
}

// ListActive returns active locations, restricted to one site when siteFilter is set.
// Rows come back ordered by id so ties in the locator resolve the same way every time.
func (s *SiteLocationStore) ListActive(ctx context.Context, siteFilter *id.SiteID) ([]models.SiteLocation, error) {
	query := `
		SELECT id, site_id, site_name, name, address, latitude, longitude, radius_meters, is_active, strict_geofence
		FROM site_locations
		WHERE is_active AND ($1::uuid IS NULL OR site_id = $1)
		ORDER BY id
	`
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, nullSiteID(siteFilter))
	if err != nil {
		return nil, fmt.Errorf("list active site locations: %w", err)
	}
	defer rows.Close()

	var out []models.SiteLocation
	for rows.Next() {
		var (
			locID, siteID uuid.UUID
			lat, lng      float64
			loc           models.SiteLocation
		)
		if err := rows.Scan(&locID, &siteID, &loc.SiteName, &loc.Name, &loc.Address,
			&lat, &lng, &loc.RadiusMeters, &loc.Active, &loc.StrictGeofence); err != nil {
			return nil, fmt.Errorf("scan site location: %w", err)
		}
		loc.ID = id.SiteLocationID(locID)
		loc.SiteID = id.SiteID(siteID)
		// the table's CHECK constraints keep stored coordinates in range
		loc.Coordinate = geo.Coordinate{Latitude: lat, Longitude: lng}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate site locations: %w", err)
	}
	return out, nil
}

// Save inserts or replaces a site location. Used for seeding and tests;
// site administration owns these rows in production.
func (s *SiteLocationStore) Save(ctx context.Context, loc models.SiteLocation) error {
	query := `
		INSERT INTO site_locations (id, site_id, site_name, name, address, latitude, longitude, radius_meters, is_active, strict_geofence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			site_id = EXCLUDED.site_id,
			site_name = EXCLUDED.site_name,
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			radius_meters = EXCLUDED.radius_meters,
			is_active = EXCLUDED.is_active,
			strict_geofence = EXCLUDED.strict_geofence
	`
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(loc.ID),
		uuid.UUID(loc.SiteID),
		loc.SiteName,
		loc.Name,
		loc.Address,
		loc.Coordinate.Latitude,
		loc.Coordinate.Longitude,
		loc.RadiusMeters,
		loc.Active,
		loc.StrictGeofence,
	)
	if err != nil {
		return fmt.Errorf("save site location: %w", err)
	}
	return nil
}
