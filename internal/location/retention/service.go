// Package retention runs the verification retention policy. It is triggered
// from outside the request path: the retention command or the admin endpoint.
package retention

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"clockgeo/internal/location/verification"
	audit "clockgeo/pkg/platform/audit"
	"clockgeo/pkg/requestcontext"
)

type Cleaner interface {
	Cleanup(ctx context.Context, retentionDays int) (verification.CleanupResult, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service applies a default retention window and audits every pass.
type Service struct {
	cleaner        Cleaner
	defaultDays    int
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

func New(cleaner Cleaner, defaultDays int, opts ...Option) *Service {
	s := &Service{cleaner: cleaner, defaultDays: defaultDays}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Run deletes records older than days, or the configured default when days
// is zero.
func (s *Service) Run(ctx context.Context, days int) (verification.CleanupResult, error) {
	if days == 0 {
		days = s.defaultDays
	}

	res, err := s.cleaner.Cleanup(ctx, days)
	if err != nil {
		s.logger.ErrorContext(ctx, "retention cleanup failed",
			"request_id", requestcontext.RequestID(ctx),
			"retention_days", days,
			"error", err,
		)
		return res, err
	}

	if s.auditPublisher != nil {
		event := audit.Event{
			Subject:   "location_verifications",
			Action:    string(audit.EventRetentionCleanup),
			Decision:  "completed",
			RequestID: requestcontext.RequestID(ctx),
			Attributes: map[string]string{
				"retention_days":        strconv.Itoa(days),
				"cutoff":                res.Cutoff.UTC().Format(time.RFC3339),
				"verifications_deleted": strconv.FormatInt(res.Verifications, 10),
				"accuracy_logs_deleted": strconv.FormatInt(res.AccuracyLogs, 10),
			},
		}
		if err := s.auditPublisher.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
	return res, nil
}
