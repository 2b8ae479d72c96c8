package permission

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	dErrors "clockgeo/pkg/domain-errors"
	audit "clockgeo/pkg/platform/audit"
	"clockgeo/pkg/platform/sentinel"
	"clockgeo/pkg/requestcontext"
)

const (
	maxStatusLength     = 64
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type Store interface {
	Append(ctx context.Context, rec *models.PermissionRecord) error
	LatestGranted(ctx context.Context, userID id.UserID) (*models.PermissionRecord, error)
	ListByUser(ctx context.Context, userID id.UserID, limit int) ([]models.PermissionRecord, error)
	TouchLastUsed(ctx context.Context, recordID id.PermissionID, at time.Time) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Tracker keeps the append-only history of a user's location permission.
// Only a granted observation counts as consent; prompt and denied never do.
type Tracker struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(t *Tracker) {
		t.auditPublisher = publisher
	}
}

func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{store: store}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Record appends one permission observation. status is the client's free-form
// state label and defaults to the permission type.
func (t *Tracker) Record(ctx context.Context, userID id.UserID, permType models.PermissionType, status string) (*models.PermissionRecord, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "user is not authenticated")
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = string(permType)
	}
	if len(status) > maxStatusLength {
		return nil, dErrors.New(dErrors.CodeValidation, "status must be 64 characters or less")
	}

	now := requestcontext.Now(ctx)
	rec := &models.PermissionRecord{
		ID:             id.PermissionID(uuid.New()),
		UserID:         userID,
		PermissionType: permType,
		Status:         status,
		LastCheckedAt:  now,
		CreatedAt:      now,
	}
	if err := t.store.Append(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record location permission")
	}

	t.emitAudit(ctx, audit.Event{
		UserID:   userID,
		Subject:  userID.String(),
		Action:   string(audit.EventPermissionRecorded),
		Decision: string(permType),
	})
	return rec, nil
}

// CurrentStatus returns the most recent granted observation, or
// HasPermission=false when the user never granted.
func (t *Tracker) CurrentStatus(ctx context.Context, userID id.UserID) (models.PermissionStatus, error) {
	rec, err := t.store.LatestGranted(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.PermissionStatus{HasPermission: false}, nil
		}
		return models.PermissionStatus{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load location permission")
	}
	checked := rec.LastCheckedAt
	return models.PermissionStatus{
		HasPermission:  true,
		PermissionType: rec.PermissionType,
		Status:         rec.Status,
		LastUsedAt:     rec.LastUsedAt,
		LastCheckedAt:  &checked,
	}, nil
}

// MarkUsed stamps last-used on the current granted observation. It is a
// no-op when the user has none.
func (t *Tracker) MarkUsed(ctx context.Context, userID id.UserID) error {
	rec, err := t.store.LatestGranted(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load location permission")
	}
	if err := t.store.TouchLastUsed(ctx, rec.ID, requestcontext.Now(ctx)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update location permission")
	}
	return nil
}

// History lists the user's observations, newest first.
func (t *Tracker) History(ctx context.Context, userID id.UserID, limit int) ([]models.PermissionRecord, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	recs, err := t.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load permission history")
	}
	return recs, nil
}

func (t *Tracker) emitAudit(ctx context.Context, event audit.Event) {
	if t.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := t.auditPublisher.Emit(ctx, event); err != nil {
		t.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
