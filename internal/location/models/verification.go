package models

import (
	"time"

	"clockgeo/internal/geo"
	id "clockgeo/pkg/domain"
)

// EncryptedCoordinate is a sealed coordinate pair as persisted.
type EncryptedCoordinate struct {
	Latitude  string
	Longitude string
	Version   string
}

// VerificationRecord is the durable outcome of one capture attempt.
// Write-once; removed only by retention cleanup.
type VerificationRecord struct {
	ID               id.VerificationID
	ClockEventID     id.ClockEventID
	UserID           id.UserID
	Direction        Direction
	Coordinates      EncryptedCoordinate
	Accuracy         float64
	AccuracyTier     geo.Tier
	Source           Source
	DistanceFromSite *float64
	IsWithinGeofence bool
	SiteLocationID   *id.SiteLocationID
	Status           Status
	Reason           string
	Warnings         []string
	Errors           []string
	Metadata         map[string]any
	CreatedAt        time.Time
}

// VerificationView is a record with its coordinates opened for reviewers.
type VerificationView struct {
	VerificationRecord
	Coordinate geo.Coordinate
}

// AccuracyLog is an auxiliary per-attempt accuracy sample kept for device
// quality reporting and removed with verification records on retention.
type AccuracyLog struct {
	ID           id.AccuracyLogID
	UserID       id.UserID
	ClockEventID id.ClockEventID
	Direction    Direction
	Accuracy     float64
	Tier         geo.Tier
	Source       Source
	CreatedAt    time.Time
}
