package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
)

const redisKeyPrefix = "clockgeo:"

// RedisCache shares the site-location cache across instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

type cachedLocation struct {
	ID             uuid.UUID `json:"id"`
	SiteID         uuid.UUID `json:"site_id"`
	SiteName       string    `json:"site_name"`
	Address        string    `json:"address"`
	Name           string    `json:"name"`
	Latitude       float64   `json:"lat"`
	Longitude      float64   `json:"lng"`
	RadiusMeters   float64   `json:"radius_m"`
	Active         bool      `json:"active"`
	StrictGeofence bool      `json:"strict"`
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]models.SiteLocation, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get site cache: %w", err)
	}
	var entries []cachedLocation
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decode site cache: %w", err)
	}
	out := make([]models.SiteLocation, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.SiteLocation{
			ID:             id.SiteLocationID(e.ID),
			SiteID:         id.SiteID(e.SiteID),
			SiteName:       e.SiteName,
			Address:        e.Address,
			Name:           e.Name,
			Coordinate:     geo.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude},
			RadiusMeters:   e.RadiusMeters,
			Active:         e.Active,
			StrictGeofence: e.StrictGeofence,
		})
	}
	return out, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, locations []models.SiteLocation, ttl time.Duration) error {
	entries := make([]cachedLocation, 0, len(locations))
	for _, l := range locations {
		entries = append(entries, cachedLocation{
			ID:             uuid.UUID(l.ID),
			SiteID:         uuid.UUID(l.SiteID),
			SiteName:       l.SiteName,
			Address:        l.Address,
			Name:           l.Name,
			Latitude:       l.Coordinate.Latitude,
			Longitude:      l.Coordinate.Longitude,
			RadiusMeters:   l.RadiusMeters,
			Active:         l.Active,
			StrictGeofence: l.StrictGeofence,
		})
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode site cache: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set site cache: %w", err)
	}
	return nil
}
