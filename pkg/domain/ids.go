package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "clockgeo/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a SiteID can never be passed where a
// ClockEventID is expected.
type (
	UserID         uuid.UUID
	ClockEventID   uuid.UUID
	SiteID         uuid.UUID
	SiteLocationID uuid.UUID
	VerificationID uuid.UUID
	PermissionID   uuid.UUID
	AccuracyLogID  uuid.UUID
)

const maxIDLength = 64

func parseUUID[T ~[16]byte](s, kind string) (T, error) {
	var zero T
	if strings.TrimSpace(s) == "" {
		return zero, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return zero, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return zero, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return zero, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return T(u), nil
}

func ParseUserID(s string) (UserID, error)             { return parseUUID[UserID](s, "user_id") }
func ParseClockEventID(s string) (ClockEventID, error) { return parseUUID[ClockEventID](s, "time_record_id") }
func ParseSiteID(s string) (SiteID, error)             { return parseUUID[SiteID](s, "site_id") }
func ParseSiteLocationID(s string) (SiteLocationID, error) {
	return parseUUID[SiteLocationID](s, "site_location_id")
}
func ParseVerificationID(s string) (VerificationID, error) {
	return parseUUID[VerificationID](s, "verification_id")
}

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ClockEventID) String() string   { return uuid.UUID(id).String() }
func (id SiteID) String() string         { return uuid.UUID(id).String() }
func (id SiteLocationID) String() string { return uuid.UUID(id).String() }
func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id PermissionID) String() string   { return uuid.UUID(id).String() }
func (id AccuracyLogID) String() string  { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id ClockEventID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SiteID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
