// Package capture records the location of a clock-in or clock-out.
//
// Each direction of a clock event moves once from unset to captured. A capture
// is validated against the geofence, then the clock event update and the
// verification record are written in one unit of work. Rejected attempts are
// still recorded for review but never touch the clock event.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/geofence"
	"clockgeo/internal/location/metrics"
	"clockgeo/internal/location/models"
	"clockgeo/internal/location/verification"
	id "clockgeo/pkg/domain"
	dErrors "clockgeo/pkg/domain-errors"
	audit "clockgeo/pkg/platform/audit"
	"clockgeo/pkg/platform/retry"
	"clockgeo/pkg/platform/sentinel"
	"clockgeo/pkg/platform/tx"
	"clockgeo/pkg/requestcontext"
)

const (
	maxClockSkew           = 5 * time.Minute
	defaultFacilityTimeout = 2 * time.Second
)

// Request is one capture attempt from an authenticated user.
type Request struct {
	UserID       id.UserID
	ClockEventID id.ClockEventID
	Direction    models.Direction
	Coordinate   geo.Coordinate
	Accuracy     float64
	Source       models.Source
	// Timestamp is the device capture time. Zero means the request time.
	Timestamp time.Time
	Metadata  map[string]any
}

// Result is returned to the caller on success.
type Result struct {
	ClockEventID   id.ClockEventID
	Direction      models.Direction
	Location       models.CapturedLocation
	AccuracyTier   geo.Tier
	Warnings       []string
	VerificationID id.VerificationID
	Timestamp      time.Time
}

// PreviewRequest asks for a verdict without persisting anything.
type PreviewRequest struct {
	UserID     id.UserID
	Coordinate geo.Coordinate
	Accuracy   float64
	SiteID     *id.SiteID
	// StrictMode overrides the configured default when set.
	StrictMode *bool
}

// Service orchestrates location capture.
type Service struct {
	events      ClockEventStore
	validator   Validator
	recorder    Recorder
	tx          tx.Runner
	permissions PermissionTracker
	facilities  FacilityLookup

	strictMode      bool
	facilityTimeout time.Duration

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithStrictMode sets the global strictness default. Site locations flagged
// strict are enforced regardless.
func WithStrictMode(strict bool) Option {
	return func(s *Service) {
		s.strictMode = strict
	}
}

func WithPermissionTracker(p PermissionTracker) Option {
	return func(s *Service) {
		s.permissions = p
	}
}

// WithFacilityLookup enables best-effort facility enrichment bounded by timeout.
func WithFacilityLookup(f FacilityLookup, timeout time.Duration) Option {
	return func(s *Service) {
		s.facilities = f
		if timeout > 0 {
			s.facilityTimeout = timeout
		}
	}
}

func New(events ClockEventStore, validator Validator, recorder Recorder, runner tx.Runner, opts ...Option) (*Service, error) {
	if events == nil {
		return nil, errors.New("clock event store is required")
	}
	if validator == nil {
		return nil, errors.New("validator is required")
	}
	if recorder == nil {
		return nil, errors.New("recorder is required")
	}
	if runner == nil {
		return nil, errors.New("transaction runner is required")
	}
	s := &Service{
		events:          events,
		validator:       validator,
		recorder:        recorder,
		tx:              runner,
		facilityTimeout: defaultFacilityTimeout,
		tracer:          otel.Tracer("clockgeo/capture"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Capture validates and records one reading. It returns CodeNotFound when the
// clock event does not exist or belongs to someone else, CodeConflict when the
// direction is already captured, and CodePolicyViolation with the verdict's
// errors as details when the reading is rejected.
func (s *Service) Capture(ctx context.Context, req Request) (res *Result, err error) {
	ctx, span := s.tracer.Start(ctx, "capture.Capture", trace.WithAttributes(
		attribute.String("direction", string(req.Direction)),
		attribute.String("source", string(req.Source)),
	))
	defer func() {
		s.metrics.IncrementCapture(string(req.Direction), outcome(err))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome(err))
		}
		span.End()
	}()

	now := requestcontext.Now(ctx)
	capturedAt := req.Timestamp
	if capturedAt.IsZero() {
		capturedAt = now
	}
	if capturedAt.After(now.Add(maxClockSkew)) {
		return nil, dErrors.New(dErrors.CodeValidation, "timestamp is in the future")
	}

	ev, err := s.loadOwned(ctx, req.UserID, req.ClockEventID)
	if err != nil {
		return nil, err
	}
	// Fast path; re-checked under the row lock below.
	if err := ev.CanCapture(req.Direction); err != nil {
		return nil, err
	}

	verdict := s.validator.Validate(ctx, geofence.Input{
		UserID:     req.UserID,
		Coordinate: req.Coordinate,
		Accuracy:   req.Accuracy,
		SiteFilter: ev.SiteID,
		StrictMode: s.strictMode,
	})
	span.SetAttributes(
		attribute.Bool("verdict.valid", verdict.IsValid),
		attribute.String("verdict.status", string(verdict.Status())),
	)

	input := verification.RecordInput{
		ClockEventID: req.ClockEventID,
		UserID:       req.UserID,
		Direction:    req.Direction,
		Coordinate:   req.Coordinate,
		Source:       req.Source,
		Verdict:      verdict,
		Metadata:     s.metadata(ctx, req, capturedAt),
	}

	if !verdict.IsValid {
		return nil, s.reject(ctx, input)
	}

	loc := models.CapturedLocation{
		Latitude:   req.Coordinate.Latitude,
		Longitude:  req.Coordinate.Longitude,
		Accuracy:   req.Accuracy,
		Source:     req.Source,
		CapturedAt: capturedAt,
	}
	var verificationID id.VerificationID
	err = retry.Once(ctx, func() error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			_, err := s.events.Execute(ctx, req.ClockEventID,
				func(e *models.ClockEvent) error {
					if e.UserID != req.UserID {
						return sentinel.ErrNotFound
					}
					return e.CanCapture(req.Direction)
				},
				func(e *models.ClockEvent) {
					e.ApplyCapture(req.Direction, loc)
				},
			)
			if err != nil {
				return err
			}
			verificationID, err = s.recorder.Record(ctx, input)
			return err
		})
	})
	if err != nil {
		return nil, s.translateWriteError(ctx, req, err)
	}

	if s.permissions != nil {
		if err := s.permissions.MarkUsed(ctx, req.UserID); err != nil {
			s.logger.WarnContext(ctx, "failed to mark location permission used",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}

	s.emitAudit(ctx, audit.Event{
		UserID:   req.UserID,
		Subject:  req.ClockEventID.String(),
		Action:   string(audit.EventLocationCaptured),
		Decision: string(verdict.Status()),
		Attributes: map[string]string{
			"direction":       string(req.Direction),
			"accuracy_tier":   string(verdict.Accuracy.Tier),
			"policy_mode":     string(verdict.PolicyMode),
			"verification_id": verificationID.String(),
		},
	})
	s.logger.InfoContext(ctx, "location captured",
		"request_id", requestcontext.RequestID(ctx),
		"clock_event_id", req.ClockEventID.String(),
		"direction", string(req.Direction),
		"status", string(verdict.Status()),
	)

	return &Result{
		ClockEventID:   req.ClockEventID,
		Direction:      req.Direction,
		Location:       loc,
		AccuracyTier:   verdict.Accuracy.Tier,
		Warnings:       append([]string{}, verdict.Warnings...),
		VerificationID: verificationID,
		Timestamp:      capturedAt,
	}, nil
}

// reject records a failed attempt and returns the policy violation for it.
func (s *Service) reject(ctx context.Context, in verification.RecordInput) error {
	v := in.Verdict
	if _, err := s.recorder.Record(ctx, in); err != nil {
		return err
	}
	s.emitAudit(ctx, audit.Event{
		UserID:   in.UserID,
		Subject:  in.ClockEventID.String(),
		Action:   string(audit.EventLocationRejected),
		Decision: string(v.Status()),
		Reason:   firstOr(v.Errors, "location rejected"),
		Attributes: map[string]string{
			"direction":     string(in.Direction),
			"accuracy_tier": string(v.Accuracy.Tier),
			"policy_mode":   string(v.PolicyMode),
		},
	})
	s.logger.InfoContext(ctx, "location capture rejected",
		"request_id", requestcontext.RequestID(ctx),
		"clock_event_id", in.ClockEventID.String(),
		"direction", string(in.Direction),
		"errors", len(v.Errors),
	)
	return dErrors.WithDetails(
		dErrors.New(dErrors.CodePolicyViolation, "location verification failed"),
		v.Errors,
	)
}

func (s *Service) translateWriteError(ctx context.Context, req Request, err error) error {
	switch {
	case dErrors.HasCode(err, dErrors.CodeConflict), dErrors.HasCode(err, dErrors.CodeTimeout):
		return err
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, string(req.Direction)+" location already captured")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "time record not found")
	}
	s.logger.ErrorContext(ctx, "failed to capture location",
		"request_id", requestcontext.RequestID(ctx),
		"clock_event_id", req.ClockEventID.String(),
		"error", err,
	)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to capture location")
}

// Preview returns the verdict a capture would receive without recording it.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) models.Verdict {
	strict := s.strictMode
	if req.StrictMode != nil {
		strict = *req.StrictMode
	}
	return s.validator.Validate(ctx, geofence.Input{
		UserID:     req.UserID,
		Coordinate: req.Coordinate,
		Accuracy:   req.Accuracy,
		SiteFilter: req.SiteID,
		StrictMode: strict,
	})
}

// Verifications returns the verification history of a clock event owned by userID.
func (s *Service) Verifications(ctx context.Context, userID id.UserID, eventID id.ClockEventID) ([]models.VerificationView, error) {
	if _, err := s.loadOwned(ctx, userID, eventID); err != nil {
		return nil, err
	}
	views, err := s.recorder.History(ctx, eventID)
	if err != nil {
		return nil, err
	}
	s.emitAudit(ctx, audit.Event{
		UserID:  userID,
		Subject: eventID.String(),
		Action:  string(audit.EventVerificationsViewed),
		Attributes: map[string]string{
			"records": strconv.Itoa(len(views)),
		},
	})
	return views, nil
}

func (s *Service) loadOwned(ctx context.Context, userID id.UserID, eventID id.ClockEventID) (*models.ClockEvent, error) {
	ev, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "time record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load time record")
	}
	if ev.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "time record not found")
	}
	return ev, nil
}

func (s *Service) metadata(ctx context.Context, req Request, capturedAt time.Time) map[string]any {
	md := map[string]any{
		"captured_at": capturedAt.UTC().Format(time.RFC3339),
	}
	if len(req.Metadata) > 0 {
		md["client"] = req.Metadata
	}
	if dev := deviceInfo(requestcontext.UserAgent(ctx)); dev != nil {
		md["device"] = dev
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		md["client_ip"] = ip
	}
	if f := s.lookupFacility(ctx, req.Coordinate); f != nil {
		md["facility"] = f
	}
	return md
}

func (s *Service) lookupFacility(ctx context.Context, coord geo.Coordinate) map[string]any {
	if s.facilities == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.facilityTimeout)
	defer cancel()
	res, err := s.facilities.Lookup(ctx, coord)
	if err != nil {
		s.logger.WarnContext(ctx, "facility lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil
	}
	if !res.Success || res.Facility == nil {
		return nil
	}
	out := map[string]any{"name": res.Facility.Name}
	if res.Facility.Type != "" {
		out["type"] = res.Facility.Type
	}
	if res.Distance != nil {
		out["distance_meters"] = *res.Distance
	}
	return out
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "captured"
	case dErrors.HasCode(err, dErrors.CodePolicyViolation):
		return "rejected"
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return "conflict"
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return "not_found"
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return "invalid"
	default:
		return "error"
	}
}

func firstOr(xs []string, fallback string) string {
	if len(xs) > 0 {
		return xs[0]
	}
	return fallback
}
