// Package geofence decides whether a reported position is trustworthy and
// inside the allowed radius of a clinical site.
package geofence

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/metrics"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
)

// ErrValidationFailed is the single error reported when validation itself faults.
const ErrValidationFailed = "failed to validate location"

// edgeRatio is the fraction of the allowed radius past which an inside
// reading is reported as near the edge.
const edgeRatio = 0.8

// Input is one validation request.
type Input struct {
	UserID     id.UserID
	Coordinate geo.Coordinate
	Accuracy   float64
	SiteFilter *id.SiteID
	// StrictMode is the caller's default. A site location flagged strict
	// forces strictness even when this is false.
	StrictMode bool
}

// Validator produces geofence verdicts.
type Validator struct {
	locator *Locator
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Validator)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Validator) {
		v.metrics = m
	}
}

func NewValidator(locator *Locator, opts ...Option) *Validator {
	v := &Validator{
		locator: locator,
		logger:  slog.Default(),
		tracer:  otel.Tracer("clockgeo/geofence"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate never returns an error: lookup faults and panics are folded into
// the verdict as a single ErrValidationFailed error.
//
// Accuracy is always a hard gate. Geofence containment is a hard gate only
// under effective strictness (caller strict OR site strict); otherwise a
// violation is a warning.
func (v *Validator) Validate(ctx context.Context, in Input) (verdict models.Verdict) {
	start := time.Now()
	ctx, span := v.tracer.Start(ctx, "geofence.Validate")
	defer func() {
		if r := recover(); r != nil {
			v.logger.ErrorContext(ctx, "geofence validation panicked",
				"user_id", in.UserID,
				"panic", fmt.Sprint(r),
			)
			verdict = failedVerdict(in.StrictMode)
		}
		span.SetAttributes(
			attribute.Bool("geofence.valid", verdict.IsValid),
			attribute.Bool("geofence.within", verdict.IsWithinGeofence),
			attribute.String("geofence.policy_mode", string(verdict.PolicyMode)),
		)
		if len(verdict.Errors) > 0 {
			span.SetStatus(codes.Error, verdict.Errors[0])
		}
		span.End()
		v.metrics.ObserveValidateLatency(time.Since(start))
		v.metrics.IncrementVerdict(string(verdict.Status()), string(verdict.PolicyMode))
	}()

	match, err := v.locator.Nearest(ctx, in.Coordinate, in.SiteFilter)
	if err != nil {
		span.RecordError(err)
		v.logger.ErrorContext(ctx, "site lookup failed during geofence validation",
			"user_id", in.UserID,
			"error", err,
		)
		return failedVerdict(in.StrictMode)
	}

	accuracy := geo.ClassifyAccuracy(in.Accuracy)
	verdict = models.Verdict{
		Accuracy:   accuracy,
		PolicyMode: models.PolicyLenient,
		Warnings:   []string{},
		Errors:     []string{},
	}
	if in.StrictMode {
		verdict.PolicyMode = models.PolicyStrict
		verdict.EffectiveStrict = true
	}

	if match == nil {
		verdict.Warnings = append(verdict.Warnings, "No clinical site location is configured for geofence validation")
	}

	if !accuracy.Acceptable {
		verdict.Errors = append(verdict.Errors, fmt.Sprintf(
			"GPS accuracy too low: %dm (maximum allowed: %dm)",
			round(accuracy.Meters), round(geo.MaxAcceptableAccuracy),
		))
	}

	if match != nil {
		loc := match.Location
		distance := match.Distance
		verdict.DistanceFromSite = &distance
		verdict.NearestSite = &models.NearestSite{
			SiteID:         loc.SiteID,
			LocationID:     loc.ID,
			Name:           loc.SiteName,
			Address:        loc.Address,
			RadiusMeters:   loc.RadiusMeters,
			StrictGeofence: loc.StrictGeofence,
		}
		verdict.IsWithinGeofence = distance <= loc.RadiusMeters

		if loc.StrictGeofence {
			verdict.EffectiveStrict = true
			verdict.PolicyMode = models.PolicySiteStrict
		}

		if !verdict.IsWithinGeofence {
			msg := fmt.Sprintf("Location is %dm from %s (allowed radius: %dm)",
				round(distance), loc.SiteName, round(loc.RadiusMeters))
			if verdict.EffectiveStrict {
				verdict.Errors = append(verdict.Errors, msg)
				if loc.StrictGeofence {
					verdict.Errors = append(verdict.Errors, fmt.Sprintf(
						"Strict geofencing is enforced for %s; clock events must be captured within the allowed radius",
						loc.SiteName,
					))
				}
			} else {
				verdict.Warnings = append(verdict.Warnings, msg)
			}
		}
	}

	if accuracy.Acceptable && accuracy.Tier == geo.TierLow {
		verdict.Warnings = append(verdict.Warnings, fmt.Sprintf(
			"GPS accuracy is low (%dm); the recorded position may be imprecise",
			round(accuracy.Meters),
		))
	}

	if match != nil && verdict.IsWithinGeofence && match.Distance > edgeRatio*match.Location.RadiusMeters {
		verdict.Warnings = append(verdict.Warnings, fmt.Sprintf(
			"Location is near the edge of the allowed area (%dm of %dm)",
			round(match.Distance), round(match.Location.RadiusMeters),
		))
	}

	if verdict.EffectiveStrict {
		verdict.IsValid = verdict.IsWithinGeofence && accuracy.Acceptable
		if match == nil {
			// no geofence data never blocks a clock event
			verdict.IsValid = accuracy.Acceptable
		}
	} else {
		verdict.IsValid = accuracy.Acceptable
	}

	return verdict
}

func failedVerdict(strict bool) models.Verdict {
	mode := models.PolicyLenient
	if strict {
		mode = models.PolicyStrict
	}
	return models.Verdict{
		IsValid:         false,
		Warnings:        []string{},
		Errors:          []string{ErrValidationFailed},
		EffectiveStrict: strict,
		PolicyMode:      mode,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
