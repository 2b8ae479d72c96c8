package geo

import (
	"fmt"
	"math"
)

// Tier is the confidence tier of a reported horizontal accuracy radius.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Accuracy thresholds in meters. A reading is acceptable up to MaxAcceptableAccuracy.
const (
	HighAccuracyMeters    = 10.0
	MediumAccuracyMeters  = 50.0
	MaxAcceptableAccuracy = 100.0
)

var accuracyTiers = []struct {
	max  float64
	tier Tier
}{
	{HighAccuracyMeters, TierHigh},
	{MediumAccuracyMeters, TierMedium},
	{MaxAcceptableAccuracy, TierLow},
}

// Accuracy is the classification of a reported accuracy radius.
type Accuracy struct {
	Meters     float64
	Tier       Tier
	Acceptable bool
}

// ClassifyAccuracy maps an accuracy radius to a tier. Readings worse than
// MaxAcceptableAccuracy are TierLow and not acceptable.
//
// A radius that fails ValidAccuracy is a caller bug (the request boundary
// rejects it) and panics.
func ClassifyAccuracy(meters float64) Accuracy {
	if !ValidAccuracy(meters) {
		panic(fmt.Sprintf("geo: accuracy must be a finite non-negative number, got %v", meters))
	}
	for _, t := range accuracyTiers {
		if meters <= t.max {
			return Accuracy{Meters: meters, Tier: t.tier, Acceptable: true}
		}
	}
	return Accuracy{Meters: meters, Tier: TierLow, Acceptable: false}
}

// ValidAccuracy reports whether meters can be classified.
func ValidAccuracy(meters float64) bool {
	return meters >= 0 && !math.IsNaN(meters) && !math.IsInf(meters, 0)
}
