package geofence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clockgeo/internal/location/store/memory"
	id "clockgeo/pkg/domain"
)

func TestLocator_Nearest(t *testing.T) {
	ctx := context.Background()
	siteA := id.SiteID(uuid.New())
	siteB := id.SiteID(uuid.New())

	near := newSiteLocation(siteA, north(siteCenter, 20), 100, false)
	far := newSiteLocation(siteA, north(siteCenter, 500), 100, false)
	other := newSiteLocation(siteB, north(siteCenter, 5), 100, false)
	inactive := newSiteLocation(siteA, siteCenter, 100, false)
	inactive.Active = false

	locator := NewLocator(memory.NewSiteLocationStore(near, far, other, inactive))

	t.Run("picks the closest active location across sites", func(t *testing.T) {
		m, err := locator.Nearest(ctx, siteCenter, nil)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, other.ID, m.Location.ID)
		assert.InDelta(t, 5, m.Distance, 0.01)
	})

	t.Run("site filter restricts candidates", func(t *testing.T) {
		m, err := locator.Nearest(ctx, siteCenter, &siteA)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, near.ID, m.Location.ID, "inactive location at distance 0 is ignored")
	})

	t.Run("no active locations is not an error", func(t *testing.T) {
		unknown := id.SiteID(uuid.New())
		m, err := locator.Nearest(ctx, siteCenter, &unknown)
		require.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestLocator_TieBreakIsDeterministic(t *testing.T) {
	siteID := id.SiteID(uuid.New())
	a := newSiteLocation(siteID, siteCenter, 100, false)
	b := newSiteLocation(siteID, siteCenter, 100, false)
	want := a.ID
	if b.ID.String() < a.ID.String() {
		want = b.ID
	}

	for i := 0; i < 10; i++ {
		m, err := NewLocator(memory.NewSiteLocationStore(a, b)).Nearest(context.Background(), siteCenter, nil)
		require.NoError(t, err)
		assert.Equal(t, want, m.Location.ID)
	}
}
