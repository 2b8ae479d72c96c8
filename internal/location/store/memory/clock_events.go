package memory

import (
	"context"
	"sync"

	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/sentinel"
)

// ClockEventStore keeps clock events in memory.
type ClockEventStore struct {
	mu     sync.Mutex
	events map[id.ClockEventID]*models.ClockEvent
}

func NewClockEventStore() *ClockEventStore {
	return &ClockEventStore{events: make(map[id.ClockEventID]*models.ClockEvent)}
}

// Put inserts or replaces an event. Clock events are created by the
// scheduling system; Put exists for seeding.
func (s *ClockEventStore) Put(ev models.ClockEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := copyEvent(&ev)
	s.events[ev.ID] = cp
}

func (s *ClockEventStore) FindByID(_ context.Context, eventID id.ClockEventID) (*models.ClockEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[eventID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyEvent(ev), nil
}

// Execute runs validate and mutate under the store lock so that the check
// and the write are atomic. The stored event changes only if validate passes.
func (s *ClockEventStore) Execute(_ context.Context, eventID id.ClockEventID, validate func(*models.ClockEvent) error, mutate func(*models.ClockEvent)) (*models.ClockEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[eventID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := copyEvent(ev)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.events[eventID] = working
	return copyEvent(working), nil
}

func copyEvent(ev *models.ClockEvent) *models.ClockEvent {
	cp := *ev
	if ev.SiteID != nil {
		siteID := *ev.SiteID
		cp.SiteID = &siteID
	}
	if ev.ClockIn != nil {
		in := *ev.ClockIn
		cp.ClockIn = &in
	}
	if ev.ClockOut != nil {
		out := *ev.ClockOut
		cp.ClockOut = &out
	}
	return &cp
}
