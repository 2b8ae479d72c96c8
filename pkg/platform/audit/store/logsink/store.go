// Package logsink writes audit events to a structured logger. It is the
// default sink when no Kafka brokers are configured.
package logsink

import (
	"context"
	"log/slog"

	audit "clockgeo/pkg/platform/audit"
)

type Store struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	return &Store{logger: logger.With("component", "audit")}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	attrs := []any{
		"category", string(event.Category),
		"action", event.Action,
		"subject", event.Subject,
		"timestamp", event.Timestamp,
	}
	if !event.UserID.IsNil() {
		attrs = append(attrs, "user_id", event.UserID.String())
	}
	if event.Decision != "" {
		attrs = append(attrs, "decision", event.Decision)
	}
	if event.Reason != "" {
		attrs = append(attrs, "reason", event.Reason)
	}
	if event.RequestID != "" {
		attrs = append(attrs, "request_id", event.RequestID)
	}
	for k, v := range event.Attributes {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "audit event", attrs...)
	return nil
}
