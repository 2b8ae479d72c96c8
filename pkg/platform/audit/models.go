package audit

import (
	"time"

	id "clockgeo/pkg/domain"
)

// EventCategory classifies audit events for routing and retention.
type EventCategory string

const (
	// CategoryCompliance covers location evidence and consent changes that
	// reviewers may need long after the fact.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers rejected or suspicious clock attempts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine maintenance such as retention runs.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	UserID     id.UserID
	// Subject is the entity acted on, usually a clock event id.
	Subject    string
	Action     string
	Decision   string
	Reason     string
	RequestID  string
	// Attributes carries small event-specific values (direction, status,
	// policy mode). Never coordinates.
	Attributes map[string]string
}

type AuditEvent string

const (
	EventLocationCaptured    AuditEvent = "location_captured"
	EventLocationRejected    AuditEvent = "location_rejected"
	EventPermissionRecorded  AuditEvent = "location_permission_recorded"
	EventRetentionCleanup    AuditEvent = "location_retention_cleanup"
	EventVerificationsViewed AuditEvent = "location_verifications_viewed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventLocationCaptured:    CategoryCompliance,
	EventPermissionRecorded:  CategoryCompliance,
	EventLocationRejected:    CategorySecurity,
	EventVerificationsViewed: CategorySecurity,
	EventRetentionCleanup:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
