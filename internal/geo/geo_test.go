package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clockgeo/pkg/domain-errors"
)

func TestDistance(t *testing.T) {
	hospital := Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	clinic := Coordinate{Latitude: 40.7580, Longitude: -73.9855}

	t.Run("distance to self is zero", func(t *testing.T) {
		for _, c := range []Coordinate{hospital, clinic, {90, 180}, {-90, -180}, {0, 0}} {
			assert.Zero(t, Distance(c, c))
		}
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		assert.Equal(t, Distance(hospital, clinic), Distance(clinic, hospital))
	})

	t.Run("known distance", func(t *testing.T) {
		// ~5.3 km between lower and midtown Manhattan
		assert.InDelta(t, 5300, Distance(hospital, clinic), 100)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := Distance(Coordinate{0, 0}, Coordinate{1, 0})
		assert.InDelta(t, EarthRadiusMeters*math.Pi/180, d, 0.001)
	})

	t.Run("antipodal points stay finite", func(t *testing.T) {
		d := Distance(Coordinate{0, 0}, Coordinate{0, 180})
		assert.InDelta(t, EarthRadiusMeters*math.Pi, d, 1)
	})
}

func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"origin", 0, 0, false},
		{"bounds inclusive", 90, -180, false},
		{"latitude too high", 90.0001, 0, true},
		{"latitude too low", -91, 0, true},
		{"longitude too high", 0, 180.5, true},
		{"longitude too low", 0, -181, true},
		{"NaN latitude", math.NaN(), 0, true},
		{"infinite longitude", 0, math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinate(tt.lat, tt.lng)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Coordinate{Latitude: tt.lat, Longitude: tt.lng}, c)
		})
	}
}

func TestClassifyAccuracy(t *testing.T) {
	tests := []struct {
		meters     float64
		tier       Tier
		acceptable bool
	}{
		{0, TierHigh, true},
		{5, TierHigh, true},
		{10, TierHigh, true},
		{11, TierMedium, true},
		{50, TierMedium, true},
		{51, TierLow, true},
		{100, TierLow, true},
		{100.01, TierLow, false},
		{101, TierLow, false},
		{5000, TierLow, false},
	}
	for _, tt := range tests {
		got := ClassifyAccuracy(tt.meters)
		assert.Equal(t, tt.tier, got.Tier, "tier for %vm", tt.meters)
		assert.Equal(t, tt.acceptable, got.Acceptable, "acceptable for %vm", tt.meters)
		assert.Equal(t, tt.meters, got.Meters)
	}
}

func TestClassifyAccuracy_PanicsOnProgrammingError(t *testing.T) {
	assert.Panics(t, func() { ClassifyAccuracy(-1) })
	assert.Panics(t, func() { ClassifyAccuracy(math.NaN()) })
	assert.Panics(t, func() { ClassifyAccuracy(math.Inf(1)) })
	assert.Panics(t, func() { ClassifyAccuracy(math.Inf(-1)) })
	assert.False(t, ValidAccuracy(-0.5))
	assert.False(t, ValidAccuracy(math.Inf(1)))
	assert.True(t, ValidAccuracy(0))
}
