package models

import (
	"time"

	id "clockgeo/pkg/domain"
)

// PermissionRecord is one observation of a user's location-permission state.
// Rows are appended, never updated, except for the LastUsedAt stamp.
type PermissionRecord struct {
	ID             id.PermissionID
	UserID         id.UserID
	PermissionType PermissionType
	Status         string
	LastUsedAt     *time.Time
	LastCheckedAt  time.Time
	CreatedAt      time.Time
}

// PermissionStatus is the actionable permission state of a user. Only a
// granted row makes HasPermission true.
type PermissionStatus struct {
	HasPermission  bool
	PermissionType PermissionType
	Status         string
	LastUsedAt     *time.Time
	LastCheckedAt  *time.Time
}
