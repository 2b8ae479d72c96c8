package models

import (
	"time"

	id "clockgeo/pkg/domain"
	dErrors "clockgeo/pkg/domain-errors"
)

// CapturedLocation is the reading stored on a clock event for one direction.
type CapturedLocation struct {
	Latitude   float64
	Longitude  float64
	Accuracy   float64
	Source     Source
	CapturedAt time.Time
}

// ClockEvent is the time record owned by the scheduling system. Only the
// location fields are written here.
//
// Invariants:
//   - each direction is captured at most once (unset -> captured)
//   - a captured direction is never overwritten or merged
type ClockEvent struct {
	ID       id.ClockEventID
	UserID   id.UserID
	SiteID   *id.SiteID
	ClockIn  *CapturedLocation
	ClockOut *CapturedLocation
}

// Captured reports whether the direction already holds a location.
func (e *ClockEvent) Captured(d Direction) bool {
	switch d {
	case DirectionClockIn:
		return e.ClockIn != nil
	case DirectionClockOut:
		return e.ClockOut != nil
	}
	return false
}

// CanCapture checks the unset -> captured transition for d.
// Use with ApplyCapture in Execute callbacks.
func (e *ClockEvent) CanCapture(d Direction) error {
	if d != DirectionClockIn && d != DirectionClockOut {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown capture direction")
	}
	if e.Captured(d) {
		return dErrors.New(dErrors.CodeConflict, string(d)+" location already captured")
	}
	return nil
}

// ApplyCapture stores loc for d. Call CanCapture first.
func (e *ClockEvent) ApplyCapture(d Direction, loc CapturedLocation) {
	l := loc
	switch d {
	case DirectionClockIn:
		e.ClockIn = &l
	case DirectionClockOut:
		e.ClockOut = &l
	}
}

// Location returns the captured location for d, if any.
func (e *ClockEvent) Location(d Direction) *CapturedLocation {
	if d == DirectionClockIn {
		return e.ClockIn
	}
	if d == DirectionClockOut {
		return e.ClockOut
	}
	return nil
}
