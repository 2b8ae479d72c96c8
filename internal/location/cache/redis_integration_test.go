//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/cache"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestSetThenGet() {
	ctx := context.Background()
	loc := models.SiteLocation{
		ID:             id.SiteLocationID(uuid.New()),
		SiteID:         id.SiteID(uuid.New()),
		SiteName:       "University Hospital",
		Name:           "North entrance",
		Address:        "3400 Spruce St",
		Coordinate:     geo.Coordinate{Latitude: 39.9496, Longitude: -75.1932},
		RadiusMeters:   150,
		Active:         true,
		StrictGeofence: true,
	}
	s.Require().NoError(s.cache.Set(ctx, "sites:all", []models.SiteLocation{loc}, time.Minute))

	got, ok, err := s.cache.Get(ctx, "sites:all")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Len(got, 1)
	s.Equal(loc, got[0])
}

func (s *RedisCacheSuite) TestMiss() {
	_, ok, err := s.cache.Get(context.Background(), "sites:none")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestEmptyListIsCached() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "sites:empty", nil, time.Minute))
	got, ok, err := s.cache.Get(ctx, "sites:empty")
	s.Require().NoError(err)
	s.True(ok)
	s.Empty(got)
}
