package capture

import (
	"context"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/facility"
	"clockgeo/internal/location/geofence"
	"clockgeo/internal/location/models"
	"clockgeo/internal/location/verification"
	id "clockgeo/pkg/domain"
	audit "clockgeo/pkg/platform/audit"
)

// ClockEventStore reads clock events and applies atomic validate-then-mutate
// updates to them.
type ClockEventStore interface {
	FindByID(ctx context.Context, eventID id.ClockEventID) (*models.ClockEvent, error)
	Execute(ctx context.Context, eventID id.ClockEventID, validate func(*models.ClockEvent) error, mutate func(*models.ClockEvent)) (*models.ClockEvent, error)
}

type Validator interface {
	Validate(ctx context.Context, in geofence.Input) models.Verdict
}

type Recorder interface {
	Record(ctx context.Context, in verification.RecordInput) (id.VerificationID, error)
	History(ctx context.Context, eventID id.ClockEventID) ([]models.VerificationView, error)
}

type PermissionTracker interface {
	MarkUsed(ctx context.Context, userID id.UserID) error
}

type FacilityLookup interface {
	Lookup(ctx context.Context, coord geo.Coordinate) (facility.Result, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}
