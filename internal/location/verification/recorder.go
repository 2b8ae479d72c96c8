package verification

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/metrics"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	dErrors "clockgeo/pkg/domain-errors"
	"clockgeo/pkg/platform/retry"
	"clockgeo/pkg/platform/tx"
	"clockgeo/pkg/requestcontext"
)

type VerificationStore interface {
	Insert(ctx context.Context, rec *models.VerificationRecord) error
	ListByClockEvent(ctx context.Context, eventID id.ClockEventID) ([]models.VerificationRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type AccuracyLogStore interface {
	Append(ctx context.Context, entry *models.AccuracyLog) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sealer encrypts coordinates at rest. aad ties a ciphertext to its row.
type Sealer interface {
	Seal(c geo.Coordinate, aad string) (models.EncryptedCoordinate, error)
	Open(enc models.EncryptedCoordinate, aad string) (geo.Coordinate, error)
}

// RecordInput is one capture attempt and the verdict reached for it.
type RecordInput struct {
	ClockEventID id.ClockEventID
	UserID       id.UserID
	Direction    models.Direction
	Coordinate   geo.Coordinate
	Source       models.Source
	Verdict      models.Verdict
	// Metadata is merged into the record's metadata (device, facility).
	Metadata map[string]any
}

// CleanupResult reports what a retention pass removed.
type CleanupResult struct {
	Cutoff        time.Time
	Verifications int64
	AccuracyLogs  int64
}

// Recorder persists verification records and their accuracy samples.
type Recorder struct {
	records VerificationStore
	samples AccuracyLogStore
	sealer  Sealer
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func NewRecorder(records VerificationStore, samples AccuracyLogStore, sealer Sealer, opts ...Option) *Recorder {
	r := &Recorder{records: records, samples: samples, sealer: sealer}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Record stores the outcome of one capture attempt and returns its id.
// Status is derived from the verdict. Storage failures come back as
// CodeInternal; outside a transaction a transient failure is retried once.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (id.VerificationID, error) {
	now := requestcontext.Now(ctx)
	recordID := id.VerificationID(uuid.New())

	sealed, err := r.sealer.Seal(in.Coordinate, associatedData(recordID, in.Direction))
	if err != nil {
		return id.VerificationID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seal coordinates")
	}

	v := in.Verdict
	rec := &models.VerificationRecord{
		ID:               recordID,
		ClockEventID:     in.ClockEventID,
		UserID:           in.UserID,
		Direction:        in.Direction,
		Coordinates:      sealed,
		Accuracy:         v.Accuracy.Meters,
		AccuracyTier:     v.Accuracy.Tier,
		Source:           in.Source,
		DistanceFromSite: v.DistanceFromSite,
		IsWithinGeofence: v.IsWithinGeofence,
		Status:           v.Status(),
		Reason:           reason(v),
		Warnings:         append([]string(nil), v.Warnings...),
		Errors:           append([]string(nil), v.Errors...),
		Metadata:         buildMetadata(v, in.Metadata),
		CreatedAt:        now,
	}
	if v.NearestSite != nil {
		locID := v.NearestSite.LocationID
		rec.SiteLocationID = &locID
	}

	if err := r.write(ctx, func() error { return r.records.Insert(ctx, rec) }); err != nil {
		r.logger.ErrorContext(ctx, "failed to persist verification record",
			"request_id", requestcontext.RequestID(ctx),
			"clock_event_id", in.ClockEventID.String(),
			"direction", string(in.Direction),
			"error", err,
		)
		return id.VerificationID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record location verification")
	}

	sample := &models.AccuracyLog{
		ID:           id.AccuracyLogID(uuid.New()),
		UserID:       in.UserID,
		ClockEventID: in.ClockEventID,
		Direction:    in.Direction,
		Accuracy:     v.Accuracy.Meters,
		Tier:         v.Accuracy.Tier,
		Source:       in.Source,
		CreatedAt:    now,
	}
	// Accuracy samples are auxiliary; losing one does not fail the attempt.
	if err := r.samples.Append(ctx, sample); err != nil {
		r.logger.WarnContext(ctx, "failed to append accuracy log",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", recordID.String(),
			"error", err,
		)
	}
	return recordID, nil
}

// write retries transient failures once unless ctx carries a transaction,
// where the caller owns the retry of the whole unit of work.
func (r *Recorder) write(ctx context.Context, op func() error) error {
	if tx.InUnit(ctx) {
		return op()
	}
	return retry.Once(ctx, op)
}

// History returns the verification records of a clock event in capture
// order with coordinates opened.
func (r *Recorder) History(ctx context.Context, eventID id.ClockEventID) ([]models.VerificationView, error) {
	recs, err := r.records.ListByClockEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification history")
	}
	views := make([]models.VerificationView, 0, len(recs))
	for _, rec := range recs {
		c, err := r.sealer.Open(rec.Coordinates, associatedData(rec.ID, rec.Direction))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open verification coordinates")
		}
		views = append(views, models.VerificationView{VerificationRecord: rec, Coordinate: c})
	}
	return views, nil
}

// Cleanup deletes verification records and accuracy logs created more than
// retentionDays before the request time. Running it twice deletes nothing new.
func (r *Recorder) Cleanup(ctx context.Context, retentionDays int) (CleanupResult, error) {
	if retentionDays <= 0 {
		return CleanupResult{}, dErrors.New(dErrors.CodeValidation, "retention days must be positive")
	}
	res := CleanupResult{Cutoff: requestcontext.Now(ctx).AddDate(0, 0, -retentionDays)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.records.DeleteOlderThan(gctx, res.Cutoff)
		if err != nil {
			return fmt.Errorf("delete verification records: %w", err)
		}
		res.Verifications = n
		return nil
	})
	g.Go(func() error {
		n, err := r.samples.DeleteOlderThan(gctx, res.Cutoff)
		if err != nil {
			return fmt.Errorf("delete accuracy logs: %w", err)
		}
		res.AccuracyLogs = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return res, dErrors.Wrap(err, dErrors.CodeInternal, "retention cleanup failed")
	}

	r.metrics.AddCleanupDeleted("verification", res.Verifications)
	r.metrics.AddCleanupDeleted("accuracy_log", res.AccuracyLogs)
	r.logger.InfoContext(ctx, "retention cleanup completed",
		"cutoff", res.Cutoff,
		"verifications_deleted", res.Verifications,
		"accuracy_logs_deleted", res.AccuracyLogs,
	)
	return res, nil
}

func associatedData(recordID id.VerificationID, d models.Direction) string {
	return recordID.String() + "|" + string(d)
}

func reason(v models.Verdict) string {
	if len(v.Errors) > 0 {
		return strings.Join(v.Errors, "; ")
	}
	return strings.Join(v.Warnings, "; ")
}

func buildMetadata(v models.Verdict, extra map[string]any) map[string]any {
	md := map[string]any{
		"policy_mode":      string(v.PolicyMode),
		"effective_strict": v.EffectiveStrict,
		"is_valid":         v.IsValid,
	}
	if v.NearestSite != nil {
		md["site_name"] = v.NearestSite.Name
		md["radius_meters"] = v.NearestSite.RadiusMeters
	}
	maps.Copy(md, extra)
	return md
}
