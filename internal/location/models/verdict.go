package models

import "clockgeo/internal/geo"

// Verdict is the outcome of geofence validation, independent of persistence.
type Verdict struct {
	IsValid          bool
	IsWithinGeofence bool
	// DistanceFromSite is nil when no site location was found.
	DistanceFromSite *float64
	NearestSite      *NearestSite
	Accuracy         geo.Accuracy
	Warnings         []string
	Errors           []string
	EffectiveStrict  bool
	PolicyMode       PolicyMode
}

// Status derives the verification status:
// rejected iff there are errors, approved iff valid with no warnings, flagged otherwise.
func (v Verdict) Status() Status {
	switch {
	case len(v.Errors) > 0:
		return StatusRejected
	case v.IsValid && len(v.Warnings) == 0:
		return StatusApproved
	default:
		return StatusFlagged
	}
}
