package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "clockgeo/pkg/domain"
	audit "clockgeo/pkg/platform/audit"
)

var ErrListUnsupported = errors.New("audit store does not support listing")

// Publisher captures structured audit events. In sync mode Emit returns the
// store's error; in async mode events are queued and written by a single
// worker, and a full queue drops the event with a warning.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	queue     chan audit.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithAsyncBuffer switches the publisher to async mode with a queue of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan audit.Event, n)
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
	default:
		p.logger.WarnContext(ctx, "audit queue full, dropping event",
			"action", event.Action,
			"request_id", event.RequestID,
		)
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	l, ok := p.store.(audit.Lister)
	if !ok {
		return nil, ErrListUnsupported
	}
	return l.ListByUser(ctx, userID)
}

// Close flushes queued events. Safe to call more than once.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.queue != nil {
			close(p.queue)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.Error("failed to append audit event",
				"action", event.Action,
				"request_id", event.RequestID,
				"error", err,
			)
		}
		cancel()
	}
}
